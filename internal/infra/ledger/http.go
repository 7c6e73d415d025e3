package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/notifier/internal/core/domain"
	"github.com/vietddude/notifier/internal/metrics"
)

const defaultArchiveMethod = "get_blocks"

// HTTPClient implements Client over JSON-RPC/HTTP. Ledger addresses are the
// base URLs of the ledger services.
type HTTPClient struct {
	httpClient *http.Client

	mu           sync.RWMutex
	successCount int
	failureCount int
}

// NewHTTPClient creates a new HTTP-based ledger client.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
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

// QueryBlocks issues one get-blocks call against the ledger.
func (c *HTTPClient) QueryBlocks(ctx context.Context, address domain.LedgerAddress, start, length uint64) (*QueryBlocksResult, error) {
	var result QueryBlocksResult
	params := map[string]any{"start": start, "length": length}

	if err := c.call(ctx, string(address), "query_blocks", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryArchive fetches a block range from an archive shard.
func (c *HTTPClient) QueryArchive(ctx context.Context, shard ShardLocator, start, length uint64) ([]domain.Block, error) {
	method := shard.Method
	if method == "" {
		method = defaultArchiveMethod
	}

	var result struct {
		Blocks []domain.Block `json:"blocks"`
	}
	params := map[string]any{"start": start, "length": length}

	if err := c.call(ctx, string(shard.Address), method, params, &result); err != nil {
		return nil, err
	}
	return result.Blocks, nil
}

// TokenSymbol resolves the ledger's token symbol.
func (c *HTTPClient) TokenSymbol(ctx context.Context, address domain.LedgerAddress) (string, error) {
	var result struct {
		Symbol string `json:"symbol"`
	}

	if err := c.call(ctx, string(address), "token_symbol", map[string]any{}, &result); err != nil {
		return "", err
	}
	return result.Symbol, nil
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call makes a single JSON-RPC call and decodes the result into out.
func (c *HTTPClient) call(ctx context.Context, endpoint, method string, params any, out any) error {
	start := time.Now()

	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      uuid.NewString(),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("%w: marshal request: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(jsonData))
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, endpoint, err)
	}
	defer resp.Body.Close()

	metrics.RPCLatency.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.recordFailure()
		return fmt.Errorf("%w: %s %s: unexpected status %d", ErrTransport, method, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.recordFailure()
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if envelope.Error != nil {
		c.recordFailure()
		return fmt.Errorf("%w: %s: remote error %d: %s", ErrTransport, method, envelope.Error.Code, envelope.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			c.recordFailure()
			return fmt.Errorf("%w: decode result: %v", ErrTransport, err)
		}
	}

	c.recordSuccess()
	return nil
}

func (c *HTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successCount++
}

func (c *HTTPClient) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failureCount++
}

// Stats returns success/failure counts for the client.
func (c *HTTPClient) Stats() (successes, failures int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.successCount, c.failureCount
}
