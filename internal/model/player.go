package model

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string

	// WalletAddress and ChainCredential are empty for players without
	// a configured wallet; discovery then runs in offline mode.
	WalletAddress   string
	ChainCredential string

	IsAdmin   bool
	CreatedAt time.Time
}

func (p *Player) HasChainCredentials() bool {
	return p.WalletAddress != "" && p.ChainCredential != ""
}

// HunterProfile is the per-player game-progression state. It is
// mutated only by a committed discovery.
type HunterProfile struct {
	PlayerID       uuid.UUID
	Rank           Rank
	TreasuresFound int
	TotalScore     int
	CurrentStreak  int
	LongestStreak  int
	LastHuntAt     *time.Time
}
