package blockchain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// newRPCServer answers eth_chainId and eth_blockNumber
func newRPCServer(t *testing.T, chainID uint64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result string
		switch req.Method {
		case "eth_chainId":
			result = fmt.Sprintf("0x%x", chainID)
		case "eth_blockNumber":
			result = "0x2a"
		default:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"%s"}`, req.ID, result)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConnector_Connect(t *testing.T) {
	srv := newRPCServer(t, 31337)
	ctx := context.Background()

	t.Run("matching chain id", func(t *testing.T) {
		c := NewConnector()
		defer c.Close()

		backend, err := c.Connect(ctx, &config.Network{Name: "localhost", RPCURL: srv.URL, ChainID: 31337})
		require.NoError(t, err)

		head, err := backend.BlockNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), head)
	})

	t.Run("adopts chain id when unset", func(t *testing.T) {
		c := NewConnector()
		defer c.Close()

		network := &config.Network{Name: "local", RPCURL: srv.URL}
		_, err := c.Connect(ctx, network)
		require.NoError(t, err)
		assert.Equal(t, uint64(31337), network.ChainID)
	})

	t.Run("chain id mismatch", func(t *testing.T) {
		c := NewConnector()
		defer c.Close()

		_, err := c.Connect(ctx, &config.Network{Name: "goerli", RPCURL: srv.URL, ChainID: 5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chain ID mismatch")
	})

	t.Run("no endpoint", func(t *testing.T) {
		_, err := NewConnector().Connect(ctx, &config.Network{Name: "empty"})
		assert.Error(t, err)
	})

	t.Run("clients are reused", func(t *testing.T) {
		c := NewConnector()
		defer c.Close()

		network := &config.Network{Name: "localhost", RPCURL: srv.URL, ChainID: 31337}
		a, err := c.Connect(ctx, network)
		require.NoError(t, err)
		b, err := c.Connect(ctx, network)
		require.NoError(t, err)
		assert.Same(t, a, b)
	})
}
