package chain

import (
	"context"
	"errors"
	"net"
	"time"

	"geohunt_backend/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Gateway submits discovery claims to the chain and classifies every
// failure into the closed ClaimResult union. It never returns an
// error to callers: unclassifiable failures surface as Unavailable
// with CauseUnknown so the discovery pipeline can degrade instead of
// aborting.
type Gateway struct {
	client *Client
}

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// SubmitClaim asks the treasure contract to mint the discovery NFT.
// The claim carries the player credential, a reference to the hunter
// profile and the serialized location proof.
func (g *Gateway) SubmitClaim(ctx context.Context, credential, profileRef, treasureID, locationProof string) ClaimResult {
	log := logger.With("chain_gateway", zap.String("treasure_id", treasureID))

	params := []interface{}{
		g.client.contractHash,
		"claimTreasure",
		[]interface{}{credential, profileRef, treasureID, locationProof},
	}

	result, err := g.client.Call(ctx, "submitclaim", params)
	if err != nil {
		return g.classify(err, log)
	}

	var receipt mintReceipt
	if err := json.Unmarshal(result, &receipt); err != nil {
		log.Warn("undecodable mint receipt", zap.Error(err))
		cause := CauseUnknown
		return ClaimResult{Unavailable: &cause}
	}

	log.Info("claim minted",
		zap.String("tx_ref", receipt.TxRef),
		zap.Int64("block_height", receipt.BlockHeight))

	return ClaimResult{Minted: &MintInfo{
		NFTRef:      receipt.NFTRef,
		TxRef:       receipt.TxRef,
		BlockHeight: receipt.BlockHeight,
		GasUsed:     receipt.GasUsed,
	}}
}

// classify maps transport and RPC failures onto the claim outcome.
// Contract-level rejections are ground truth about the treasure and
// fatal; connectivity and funding problems are not.
func (g *Gateway) classify(err error, log *zap.Logger) ClaimResult {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeAlreadyClaimed:
			log.Info("claim rejected on chain: already claimed")
			reason := ReasonAlreadyClaimedOnChain
			return ClaimResult{Rejected: &reason}
		case codeLocationRejected:
			log.Info("claim rejected on chain: location rejected")
			reason := ReasonLocationRejectedOnChain
			return ClaimResult{Rejected: &reason}
		case codeInsufficientFunds:
			log.Warn("claim not submitted: insufficient funds")
			cause := CauseInsufficientFunds
			return ClaimResult{Unavailable: &cause}
		default:
			log.Warn("unclassified rpc error", zap.Error(rpcErr))
			cause := CauseUnknown
			return ClaimResult{Unavailable: &cause}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		log.Warn("chain unreachable", zap.Error(err))
		cause := CauseUnavailable
		return ClaimResult{Unavailable: &cause}
	}

	log.Warn("unknown chain failure", zap.Error(err))
	cause := CauseUnknown
	return ClaimResult{Unavailable: &cause}
}

// SubmitTimeout bounds a single claim submission end to end.
const SubmitTimeout = 15 * time.Second
