package game

import (
	"time"

	"geohunt_backend/internal/model"
)

// streakWindow is the maximum gap between hunts that keeps a streak alive.
const streakWindow = 24 * time.Hour

// ApplyDiscovery returns the profile after crediting one discovery
// worth rewardPoints at the given time. Pure: time is an explicit
// parameter and the input profile is not modified.
func ApplyDiscovery(profile model.HunterProfile, rewardPoints int, now time.Time) model.HunterProfile {
	next := profile

	next.TreasuresFound++
	next.TotalScore += rewardPoints

	if profile.LastHuntAt != nil && now.Sub(*profile.LastHuntAt) <= streakWindow {
		next.CurrentStreak = profile.CurrentStreak + 1
	} else {
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	next.Rank = RankForTreasures(next.TreasuresFound)

	huntTime := now
	next.LastHuntAt = &huntTime

	return next
}
