package model

import "time"

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

type Treasure struct {
	ID           string
	Name         string
	Description  string
	Latitude     float64
	Longitude    float64
	Rarity       Rarity
	RewardPoints int
	RequiredRank Rank
	Active       bool
	ImageRef     string
	Tags         []string
	Metadata     map[string]interface{}

	// Synthesized marks treasures created on the degraded discovery
	// path rather than by admin action.
	Synthesized bool

	ActivateAt   *time.Time
	DeactivateAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
