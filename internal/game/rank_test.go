package game

import (
	"testing"

	"geohunt_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCanHunt(t *testing.T) {
	tests := []struct {
		name         string
		playerRank   model.Rank
		requiredRank model.Rank
		expected     bool
	}{
		{"Beginner can hunt beginner treasure", model.RankBeginner, model.RankBeginner, true},
		{"Beginner cannot hunt explorer treasure", model.RankBeginner, model.RankExplorer, false},
		{"Explorer can hunt explorer treasure", model.RankExplorer, model.RankExplorer, true},
		{"Master can hunt everything", model.RankMaster, model.RankBeginner, true},
		{"Hunter cannot hunt master treasure", model.RankHunter, model.RankMaster, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanHunt(tt.playerRank, tt.requiredRank))
		})
	}
}

func TestRankForTreasures(t *testing.T) {
	tests := []struct {
		found    int
		expected model.Rank
	}{
		{0, model.RankBeginner},
		{4, model.RankBeginner},
		{5, model.RankExplorer},
		{19, model.RankExplorer},
		{20, model.RankHunter},
		{49, model.RankHunter},
		{50, model.RankMaster},
		{1000, model.RankMaster},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RankForTreasures(tt.found), "found=%d", tt.found)
	}
}

func TestRankForTreasuresMonotonic(t *testing.T) {
	prev := RankForTreasures(0)
	for n := 1; n <= 60; n++ {
		current := RankForTreasures(n)
		assert.GreaterOrEqual(t, int(current), int(prev))
		prev = current
	}
}

func TestTreasuresToNextRank(t *testing.T) {
	assert.Equal(t, 5, TreasuresToNextRank(0))
	assert.Equal(t, 1, TreasuresToNextRank(4))
	assert.Equal(t, 15, TreasuresToNextRank(5))
	assert.Equal(t, 1, TreasuresToNextRank(49))
	assert.Equal(t, 0, TreasuresToNextRank(50), "no next rank at Master")
}
