package pubsub

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize caps how much of a webhook reply is kept for error
// messages.
const maxResponseSize = 1024

type webhookClient struct {
	*http.Client
}

func newWebhookClient(requestTimeout time.Duration) *webhookClient {
	return &webhookClient{&http.Client{Timeout: requestTimeout}}
}

// postJSON sends payload to endpoint and fails for any non 2xx reply.
func (c *webhookClient) postJSON(
	endpoint, payload string, header map[string]string,
) error {
	req, err := http.NewRequest(
		http.MethodPost, endpoint, strings.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range header {
		req.Header.Set(key, value)
	}

	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
		return fmt.Errorf("replied with status %d: %s", res.StatusCode, body)
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
