// Package webhook delivers notifications by POSTing JSON to a per-recipient
// callback URL. The URL template must contain exactly one %d, substituted
// with the recipient identifier.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/botornot/api/internal/core/ports"
)

type notifier struct {
	urlTemplate string
	httpClient  *http.Client
}

func NewNotifier(urlTemplate string) ports.Broadcaster {
	return &notifier{
		urlTemplate: urlTemplate,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Broadcast fans out to all recipients concurrently. Each recipient is
// attempted exactly once; failures come back as a list and never prevent
// delivery to the others.
func (n *notifier) Broadcast(ctx context.Context, recipients []int64, msg ports.Notification) []ports.DeliveryFailure {
	var wg sync.WaitGroup
	failures := make(chan ports.DeliveryFailure, len(recipients))

	for _, recipient := range recipients {
		wg.Add(1)
		go func(recipient int64) {
			defer wg.Done()
			if err := n.deliver(ctx, recipient, msg); err != nil {
				failures <- ports.DeliveryFailure{Recipient: recipient, Err: err}
			}
		}(recipient)
	}

	wg.Wait()
	close(failures)

	var failed []ports.DeliveryFailure
	for f := range failures {
		failed = append(failed, f)
	}
	return failed
}

func (n *notifier) deliver(ctx context.Context, recipient int64, msg ports.Notification) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	url := fmt.Sprintf(n.urlTemplate, recipient)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("delivery returned status %d", resp.StatusCode)
	}
	return nil
}
