package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRPCServer(t *testing.T, handler func(req RPCRequest) RPCResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := handler(req)
		resp.JSONRPC = "2.0"
		resp.ID = req.ID

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestGateway(t *testing.T, url string) *Gateway {
	t.Helper()
	client, err := NewClient(Config{
		RPCURL:       url,
		ContractHash: "0xcontract",
		Timeout:      2 * time.Second,
	})
	require.NoError(t, err)
	return NewGateway(client)
}

func TestGatewaySubmitClaimMinted(t *testing.T) {
	srv := newRPCServer(t, func(req RPCRequest) RPCResponse {
		assert.Equal(t, "submitclaim", req.Method)

		receipt, _ := json.Marshal(mintReceipt{
			NFTRef:      "nft-0xabc",
			TxRef:       "tx-0xdef",
			BlockHeight: 4242,
			GasUsed:     1100,
		})
		return RPCResponse{Result: receipt}
	})
	defer srv.Close()

	gw := newTestGateway(t, srv.URL)
	result := gw.SubmitClaim(context.Background(), "cred", "player-1", "hanoi_hoan_kiem_001", "{}")

	require.NotNil(t, result.Minted)
	assert.Nil(t, result.Rejected)
	assert.Nil(t, result.Unavailable)
	assert.Equal(t, "nft-0xabc", result.Minted.NFTRef)
	assert.Equal(t, "tx-0xdef", result.Minted.TxRef)
	assert.Equal(t, int64(4242), result.Minted.BlockHeight)
}

func TestGatewaySubmitClaimClassification(t *testing.T) {
	tests := []struct {
		name        string
		rpcError    *RPCError
		rejected    *RejectionReason
		unavailable *UnavailableCause
	}{
		{
			name:     "Already claimed is a fatal rejection",
			rpcError: &RPCError{Code: codeAlreadyClaimed, Message: "treasure already claimed"},
			rejected: reasonPtr(ReasonAlreadyClaimedOnChain),
		},
		{
			name:     "Location rejected is a fatal rejection",
			rpcError: &RPCError{Code: codeLocationRejected, Message: "location proof rejected"},
			rejected: reasonPtr(ReasonLocationRejectedOnChain),
		},
		{
			name:        "Insufficient funds degrades to offline",
			rpcError:    &RPCError{Code: codeInsufficientFunds, Message: "not enough gas"},
			unavailable: causePtr(CauseInsufficientFunds),
		},
		{
			name:        "Unrecognized rpc error degrades to offline",
			rpcError:    &RPCError{Code: -32603, Message: "internal error"},
			unavailable: causePtr(CauseUnknown),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRPCServer(t, func(req RPCRequest) RPCResponse {
				return RPCResponse{Error: tt.rpcError}
			})
			defer srv.Close()

			gw := newTestGateway(t, srv.URL)
			result := gw.SubmitClaim(context.Background(), "cred", "player-1", "t1", "{}")

			assert.Nil(t, result.Minted)
			if tt.rejected != nil {
				require.NotNil(t, result.Rejected)
				assert.Equal(t, *tt.rejected, *result.Rejected)
			}
			if tt.unavailable != nil {
				require.NotNil(t, result.Unavailable)
				assert.Equal(t, *tt.unavailable, *result.Unavailable)
			}
		})
	}
}

func TestGatewaySubmitClaimNodeUnreachable(t *testing.T) {
	srv := newRPCServer(t, func(req RPCRequest) RPCResponse {
		return RPCResponse{}
	})
	srv.Close() // refuse connections

	gw := newTestGateway(t, srv.URL)
	result := gw.SubmitClaim(context.Background(), "cred", "player-1", "t1", "{}")

	assert.Nil(t, result.Minted)
	assert.Nil(t, result.Rejected)
	require.NotNil(t, result.Unavailable)
	assert.Equal(t, CauseUnavailable, *result.Unavailable)
}

func TestGatewaySubmitClaimUndecodableReceipt(t *testing.T) {
	srv := newRPCServer(t, func(req RPCRequest) RPCResponse {
		return RPCResponse{Result: json.RawMessage(`"not a receipt object"`)}
	})
	defer srv.Close()

	gw := newTestGateway(t, srv.URL)
	result := gw.SubmitClaim(context.Background(), "cred", "player-1", "t1", "{}")

	assert.Nil(t, result.Minted)
	require.NotNil(t, result.Unavailable)
	assert.Equal(t, CauseUnknown, *result.Unavailable)
}

func TestClientTreasureRegistered(t *testing.T) {
	srv := newRPCServer(t, func(req RPCRequest) RPCResponse {
		assert.Equal(t, "invokefunction", req.Method)
		return RPCResponse{Result: json.RawMessage(`true`)}
	})
	defer srv.Close()

	client, err := NewClient(Config{RPCURL: srv.URL, ContractHash: "0xcontract"})
	require.NoError(t, err)

	exists, err := client.TreasureRegistered(context.Background(), "hanoi_hoan_kiem_001")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func reasonPtr(r RejectionReason) *RejectionReason { return &r }

func causePtr(c UnavailableCause) *UnavailableCause { return &c }
