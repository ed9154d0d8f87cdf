// Package game holds the pure progression rules: rank thresholds,
// eligibility and the discovery state transition applied to a profile.
package game

import "geohunt_backend/internal/model"

// rankThresholds maps each rank to the minimum total treasures found.
var rankThresholds = []struct {
	Rank      model.Rank
	Threshold int
}{
	{model.RankBeginner, 0},
	{model.RankExplorer, 5},
	{model.RankHunter, 20},
	{model.RankMaster, 50},
}

// CanHunt reports whether a player rank satisfies a treasure's
// required rank.
func CanHunt(playerRank, requiredRank model.Rank) bool {
	return playerRank >= requiredRank
}

// RankForTreasures returns the highest rank whose threshold is at or
// below the given total.
func RankForTreasures(treasuresFound int) model.Rank {
	rank := model.RankBeginner
	for _, t := range rankThresholds {
		if treasuresFound >= t.Threshold {
			rank = t.Rank
		}
	}
	return rank
}

// TreasuresToNextRank returns how many more treasures are needed to
// reach the next rank, or 0 at Master.
func TreasuresToNextRank(treasuresFound int) int {
	for _, t := range rankThresholds {
		if treasuresFound < t.Threshold {
			return t.Threshold - treasuresFound
		}
	}
	return 0
}
