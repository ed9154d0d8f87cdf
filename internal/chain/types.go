package chain

import (
	"fmt"

	"github.com/goccy/go-json"
)

type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      int             `json:"id"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Chain-side error codes surfaced by the treasure contract.
const (
	codeAlreadyClaimed    = -32010
	codeLocationRejected  = -32011
	codeInsufficientFunds = -32012
)

// mintReceipt is the raw result of a successful claim submission.
type mintReceipt struct {
	NFTRef      string `json:"nft_ref"`
	TxRef       string `json:"tx_ref"`
	BlockHeight int64  `json:"block_height"`
	GasUsed     int64  `json:"gas_used"`
}

type Balance struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
	Symbol  string `json:"symbol"`
}

type OwnedNFT struct {
	Ref        string `json:"ref"`
	TreasureID string `json:"treasure_id"`
	Name       string `json:"name"`
	ImageRef   string `json:"image_ref"`
	MintedAt   int64  `json:"minted_at"`
}

// RejectionReason is a fatal chain-side verdict about the claim.
type RejectionReason string

const (
	ReasonAlreadyClaimedOnChain   RejectionReason = "already_claimed_on_chain"
	ReasonLocationRejectedOnChain RejectionReason = "location_rejected_on_chain"
)

// UnavailableCause is a non-fatal failure mode; the coordinator
// degrades to an offline discovery.
type UnavailableCause string

const (
	CauseInsufficientFunds UnavailableCause = "insufficient_funds"
	CauseUnavailable       UnavailableCause = "unavailable"
	CauseUnknown           UnavailableCause = "unknown"
)

// ClaimResult is the closed outcome of a claim submission: exactly one
// of Minted, Rejected or Unavailable is populated.
type ClaimResult struct {
	Minted      *MintInfo
	Rejected    *RejectionReason
	Unavailable *UnavailableCause
}

type MintInfo struct {
	NFTRef      string
	TxRef       string
	BlockHeight int64
	GasUsed     int64
}
