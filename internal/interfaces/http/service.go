package httpinterface

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/shareswap/poold/internal/core/application"
	"github.com/shareswap/poold/internal/core/domain"
	interfaces "github.com/shareswap/poold/internal/interfaces"
	"github.com/shareswap/poold/internal/infrastructure/auth"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Port               int
	TLSKey             string
	TLSCert            string
	NoAuth             bool
	Operator           string
	CORSAllowedOrigins []string

	PoolSvc   application.PoolService
	PubSubSvc application.PubSubService
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid listening port %d", o.Port)
	}
	if (o.TLSKey == "") != (o.TLSCert == "") {
		return fmt.Errorf("TLS requires both key and certificate when enabled")
	}
	if o.PoolSvc == nil {
		return fmt.Errorf("pool app service must not be null")
	}
	return nil
}

func (o ServiceOpts) withTLS() bool {
	return len(o.TLSKey) > 0
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

// NewService returns the HTTP JSON interface of the daemon.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{opts: opts}, nil
}

func (s *service) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           NewHandler(s.opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if s.opts.withTLS() {
			err = s.server.ListenAndServeTLS(s.opts.TLSCert, s.opts.TLSKey)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http: server stopped unexpectedly")
		}
	}()

	log.Infof("http server listening on %s", s.server.Addr)
	return nil
}

func (s *service) Stop() {
	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("http: error while shutting down server")
		return
	}
	log.Debug("stopped http server")
}

// NewHandler returns the router of the HTTP interface wrapped by the cors
// middleware.
func NewHandler(opts ServiceOpts) http.Handler {
	h := &handler{
		poolSvc:   opts.PoolSvc,
		pubsubSvc: opts.PubSubSvc,
		verifier:  auth.NewVerifier(auth.DefaultMaxClockSkew),
		noAuth:    opts.NoAuth,
		operator:  domain.NormalizeIdentity(opts.Operator),
	}

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodDelete,
		},
		AllowedHeaders: []string{
			"Content-Type", PubkeyHeader, TimestampHeader, SignatureHeader,
			CosignerPubkeyHeader, CosignerSignatureHeader,
		},
	})
	return c.Handler(newRouter(h))
}
