package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ybbus/jsonrpc"
)

// RPCHandler serves a single JSON-RPC method. Returning a non-nil
// *jsonrpc.RPCError produces an error response.
type RPCHandler func(params json.RawMessage) (interface{}, *jsonrpc.RPCError)

// RPCServer is an httptest backed JSON-RPC 2.0 server that records the calls
// made against it.
type RPCServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]RPCHandler
	calls    map[string][]json.RawMessage
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// NewRPCServer starts an RPCServer that is closed when the test completes.
func NewRPCServer(t *testing.T) *RPCServer {
	s := &RPCServer{
		handlers: make(map[string]RPCHandler),
		calls:    make(map[string][]json.RawMessage),
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)

	return s
}

// Handle registers handler for method, replacing any previous handler.
func (s *RPCServer) Handle(method string, handler RPCHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// CallCount returns the number of requests received for method.
func (s *RPCServer) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls[method])
}

// LastParams returns the raw params of the latest request for method.
func (s *RPCServer) LastParams(method string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := s.calls[method]
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

func (s *RPCServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls[req.Method] = append(s.calls[req.Method], req.Params)
	handler, ok := s.handlers[req.Method]
	s.mu.Unlock()

	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
	}
	if !ok {
		resp["error"] = &jsonrpc.RPCError{Code: -32601, Message: "Method not found"}
	} else if result, rpcErr := handler(req.Params); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
