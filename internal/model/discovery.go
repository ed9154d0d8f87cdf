package model

import (
	"time"

	"github.com/google/uuid"
)

// Discovery is the append-only record that a player claimed a treasure.
// At most one Discovery exists per treasure id; rows are never updated
// or deleted once written.
type Discovery struct {
	ID         uuid.UUID
	PlayerID   uuid.UUID
	TreasureID string

	// Chain references; synthetic placeholders when Offline is set.
	NFTRef string
	TxRef  string

	ClaimedLatitude  float64
	ClaimedLongitude float64
	ProofPayload     string
	DistanceMeters   float64

	ChainSuccess bool
	GasUsed      int64
	BlockHeight  int64
	Offline      bool

	DiscoveredAt time.Time
}
