// Package chain talks JSON-RPC to the treasure-registry network node.
package chain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

type Config struct {
	RPCURL       string        `yaml:"rpcUrl"`
	ContractHash string        `yaml:"contractHash"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Client is a JSON-RPC 2.0 client for the chain node. It is safe for
// concurrent use and meant to be constructed once and shared.
type Client struct {
	rpcURL       string
	contractHash string
	httpClient   *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("chain rpc url required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		rpcURL:       cfg.RPCURL,
		contractHash: cfg.ContractHash,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Call makes a single RPC call against the node.
func (c *Client) Call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	req := RPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}

// GetBalance returns the token balance for an address.
func (c *Client) GetBalance(ctx context.Context, address string) (*Balance, error) {
	result, err := c.Call(ctx, "getbalance", []interface{}{address})
	if err != nil {
		return nil, err
	}

	var balance Balance
	if err := json.Unmarshal(result, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetOwnedNFTs returns the treasure NFTs held by an address.
func (c *Client) GetOwnedNFTs(ctx context.Context, address string) ([]OwnedNFT, error) {
	result, err := c.Call(ctx, "getownednfts", []interface{}{address})
	if err != nil {
		return nil, err
	}

	var nfts []OwnedNFT
	if err := json.Unmarshal(result, &nfts); err != nil {
		return nil, err
	}
	return nfts, nil
}

// TreasureRegistered checks whether a treasure id exists in the
// on-chain registry.
func (c *Client) TreasureRegistered(ctx context.Context, treasureID string) (bool, error) {
	result, err := c.Call(ctx, "invokefunction", []interface{}{c.contractHash, "treasureExists", []interface{}{treasureID}})
	if err != nil {
		return false, err
	}

	var exists bool
	if err := json.Unmarshal(result, &exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Health pings the node.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Call(ctx, "getblockcount", nil)
	return err
}
