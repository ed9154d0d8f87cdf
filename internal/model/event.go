package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscoveryEvent is the broadcast payload for a committed discovery.
type DiscoveryEvent struct {
	DiscoveryID  uuid.UUID `json:"discovery_id"`
	PlayerID     uuid.UUID `json:"player_id"`
	TreasureID   string    `json:"treasure_id"`
	TreasureName string    `json:"treasure_name"`
	Rarity       Rarity    `json:"rarity"`
	RewardPoints int       `json:"reward_points"`
	Offline      bool      `json:"offline"`
	DiscoveredAt time.Time `json:"discovered_at"`
}
