package application

import (
	"context"
	"sync"

	"github.com/shareswap/poold/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

const listenerBufferSize = 64

// eventBroker fans committed pool events out to in-process listeners. A
// listener that doesn't keep up loses events rather than blocking writers.
type eventBroker struct {
	lock      *sync.RWMutex
	listeners map[int]chan domain.PoolEvent
	nextID    int
}

func newEventBroker() *eventBroker {
	return &eventBroker{
		lock:      &sync.RWMutex{},
		listeners: make(map[int]chan domain.PoolEvent),
	}
}

// subscribe returns a channel receiving every event broadcasted until ctx is
// done, then the channel is closed.
func (b *eventBroker) subscribe(ctx context.Context) <-chan domain.PoolEvent {
	ch := make(chan domain.PoolEvent, listenerBufferSize)

	b.lock.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = ch
	b.lock.Unlock()

	go func() {
		<-ctx.Done()

		b.lock.Lock()
		defer b.lock.Unlock()
		delete(b.listeners, id)
		close(ch)
	}()

	return ch
}

func (b *eventBroker) broadcast(event domain.PoolEvent) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	for id, ch := range b.listeners {
		select {
		case ch <- event:
		default:
			log.Debugf("event listener %d is full, dropping %s event", id, event.Type)
		}
	}
}
