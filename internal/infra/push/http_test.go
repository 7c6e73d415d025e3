package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/notifier/internal/core/domain"
)

func TestHTTPPusherNotify(t *testing.T) {
	var gotMethod string
	var gotArgs domain.NotifyTransactionArgs

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string                       `json:"method"`
			Params domain.NotifyTransactionArgs `json:"params"`
			ID     string                       `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotMethod = req.Method
		gotArgs = req.Params

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": nil})
	}))
	defer srv.Close()

	p := NewHTTPPusher("", 5*time.Second)
	args := domain.NotifyTransactionArgs{
		TokenSymbol:   "FOO",
		LedgerAddress: "ledger-foo",
		BlockIndex:    101,
	}
	if err := p.Notify(context.Background(), domain.SubscriberID(srv.URL), args); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if gotMethod != DefaultMethodName {
		t.Errorf("method = %q, want %q", gotMethod, DefaultMethodName)
	}
	if gotArgs.TokenSymbol != "FOO" || gotArgs.BlockIndex != 101 {
		t.Errorf("params = %+v, want FOO@101", gotArgs)
	}
}

func TestHTTPPusherCustomMethodName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Method != "on_ledger_block" {
			t.Errorf("method = %q, want on_ledger_block", req.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{"result": nil})
	}))
	defer srv.Close()

	p := NewHTTPPusher("on_ledger_block", 5*time.Second)
	if err := p.Notify(context.Background(), domain.SubscriberID(srv.URL), domain.NotifyTransactionArgs{}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
}

func TestHTTPPusherRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": -32601, "message": "method not found"},
		})
	}))
	defer srv.Close()

	p := NewHTTPPusher("", 5*time.Second)
	if err := p.Notify(context.Background(), domain.SubscriberID(srv.URL), domain.NotifyTransactionArgs{}); err == nil {
		t.Fatal("Notify() = nil, want error on remote rejection")
	}
}

func TestHTTPPusherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPPusher("", 5*time.Second)
	if err := p.Notify(context.Background(), domain.SubscriberID(srv.URL), domain.NotifyTransactionArgs{}); err == nil {
		t.Fatal("Notify() = nil, want error on 500")
	}
}
