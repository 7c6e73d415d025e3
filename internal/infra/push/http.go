package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/notifier/internal/core/domain"
	"github.com/vietddude/notifier/internal/metrics"
)

// DefaultMethodName is the JSON-RPC method invoked on subscribers unless
// configured otherwise.
const DefaultMethodName = "notify_transaction"

// HTTPPusher implements Pusher over JSON-RPC/HTTP. Subscriber ids are the
// base URLs of the subscriber services.
type HTTPPusher struct {
	methodName string
	httpClient *http.Client
}

// NewHTTPPusher creates a pusher invoking the given method on subscribers.
func NewHTTPPusher(methodName string, timeout time.Duration) *HTTPPusher {
	if methodName == "" {
		methodName = DefaultMethodName
	}
	return &HTTPPusher{
		methodName: methodName,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Notify pushes one transaction notification to a subscriber.
func (p *HTTPPusher) Notify(ctx context.Context, subscriber domain.SubscriberID, args domain.NotifyTransactionArgs) error {
	start := time.Now()

	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  p.methodName,
		"params":  args,
		"id":      uuid.NewString(),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", string(subscriber), bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push to %s: %w", subscriber, err)
	}
	defer resp.Body.Close()

	metrics.RPCLatency.WithLabelValues(string(subscriber), p.methodName).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push to %s: unexpected status %d", subscriber, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("push to %s: remote error %d: %s", subscriber, envelope.Error.Code, envelope.Error.Message)
	}

	return nil
}
