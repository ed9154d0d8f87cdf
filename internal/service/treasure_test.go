package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"geohunt_backend/internal/model"
	"geohunt_backend/internal/repository"
	"geohunt_backend/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type treasureFixture struct {
	treasures   *mocks.MockTreasureRepository
	discoveries *mocks.MockDiscoveryRepository
	players     *mocks.MockPlayerRepository
	reader      *mocks.MockChainReader
	svc         *TreasureService
}

func newTreasureFixture() *treasureFixture {
	f := &treasureFixture{
		treasures:   &mocks.MockTreasureRepository{},
		discoveries: &mocks.MockDiscoveryRepository{},
		players:     &mocks.MockPlayerRepository{},
		reader:      &mocks.MockChainReader{},
	}
	f.svc = NewTreasureService(f.treasures, f.discoveries, f.players, f.reader)
	return f
}

// treasureAt places a treasure the given number of meters north of the
// search point.
func treasureAt(id string, baseLat, lng, metersNorth float64, requiredRank model.Rank) *model.Treasure {
	return &model.Treasure{
		ID:           id,
		Name:         id,
		Latitude:     baseLat + metersNorth*0.0000089932,
		Longitude:    lng,
		Rarity:       model.RarityCommon,
		RewardPoints: 100,
		RequiredRank: requiredRank,
		Active:       true,
	}
}

func TestTreasureService_FindNearby(t *testing.T) {
	f := newTreasureFixture()

	f.players.On("GetProfile", mock.Anything, testPlayerID).
		Return(&model.HunterProfile{PlayerID: testPlayerID, Rank: model.RankExplorer}, nil)

	// Out of order on purpose; one out of radius, one above the
	// player's rank.
	f.treasures.On("FindNearby", mock.Anything, hoanKiemLat, hoanKiemLng, 1000.0).
		Return([]*model.Treasure{
			treasureAt("t_far", hoanKiemLat, hoanKiemLng, 900, model.RankBeginner),
			treasureAt("t_near", hoanKiemLat, hoanKiemLng, 50, model.RankBeginner),
			treasureAt("t_master_only", hoanKiemLat, hoanKiemLng, 200, model.RankMaster),
			treasureAt("t_outside", hoanKiemLat, hoanKiemLng, 1500, model.RankBeginner),
		}, nil)

	nearby, err := f.svc.FindNearby(context.Background(), testPlayerID, hoanKiemLat, hoanKiemLng, 1000)

	require.NoError(t, err)
	require.Len(t, nearby, 3, "the bounding-box overshoot is filtered out")

	assert.Equal(t, "t_near", nearby[0].Treasure.ID)
	assert.Equal(t, "t_master_only", nearby[1].Treasure.ID)
	assert.Equal(t, "t_far", nearby[2].Treasure.ID)

	assert.True(t, nearby[0].CanHunt)
	assert.False(t, nearby[1].CanHunt, "master treasure is visible but not huntable")
	assert.InDelta(t, 50, nearby[0].DistanceMeters, 1)
	assert.InDelta(t, 200, nearby[1].DistanceMeters, 1)
}

func TestTreasureService_FindNearbyCapsResults(t *testing.T) {
	f := newTreasureFixture()

	f.players.On("GetProfile", mock.Anything, testPlayerID).
		Return(&model.HunterProfile{PlayerID: testPlayerID, Rank: model.RankBeginner}, nil)

	candidates := make([]*model.Treasure, 0, 30)
	for i := 0; i < 30; i++ {
		candidates = append(candidates,
			treasureAt(fmt.Sprintf("t_%02d", i), hoanKiemLat, hoanKiemLng, float64(i*10), model.RankBeginner))
	}
	f.treasures.On("FindNearby", mock.Anything, hoanKiemLat, hoanKiemLng, 1000.0).
		Return(candidates, nil)

	nearby, err := f.svc.FindNearby(context.Background(), testPlayerID, hoanKiemLat, hoanKiemLng, 1000)

	require.NoError(t, err)
	assert.Len(t, nearby, nearbyResultLimit)
	assert.Equal(t, "t_00", nearby[0].Treasure.ID, "closest first")
	assert.Equal(t, "t_19", nearby[nearbyResultLimit-1].Treasure.ID)
}

func TestTreasureService_FindNearbyInvalidCoordinates(t *testing.T) {
	f := newTreasureFixture()

	_, err := f.svc.FindNearby(context.Background(), testPlayerID, 91, 0, 1000)

	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	f.treasures.AssertNotCalled(t, "FindNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTreasureService_Verify(t *testing.T) {
	t.Run("Discovered treasure with chain registration", func(t *testing.T) {
		f := newTreasureFixture()

		finder := uuid.New()
		foundAt := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

		f.treasures.On("GetTreasureByID", mock.Anything, "hanoi_hoan_kiem_001").
			Return(hoanKiemTreasure(), nil)
		f.reader.On("TreasureRegistered", mock.Anything, "hanoi_hoan_kiem_001").
			Return(true, nil)
		f.discoveries.On("GetDiscoveryByTreasureID", mock.Anything, "hanoi_hoan_kiem_001").
			Return(&model.Discovery{
				PlayerID:     finder,
				TreasureID:   "hanoi_hoan_kiem_001",
				DiscoveredAt: foundAt,
			}, nil)

		result, err := f.svc.Verify(context.Background(), "hanoi_hoan_kiem_001")

		require.NoError(t, err)
		assert.True(t, result.ExistsInDatabase)
		assert.True(t, result.Active)
		require.NotNil(t, result.RegisteredOnChain)
		assert.True(t, *result.RegisteredOnChain)
		assert.True(t, result.Discovered)
		assert.Equal(t, finder, *result.DiscoveredBy)
		assert.Equal(t, foundAt, *result.DiscoveredAt)
	})

	t.Run("Chain failure leaves registration unknown", func(t *testing.T) {
		f := newTreasureFixture()

		f.treasures.On("GetTreasureByID", mock.Anything, "hanoi_hoan_kiem_001").
			Return(hoanKiemTreasure(), nil)
		f.reader.On("TreasureRegistered", mock.Anything, "hanoi_hoan_kiem_001").
			Return(false, fmt.Errorf("node down"))
		f.discoveries.On("GetDiscoveryByTreasureID", mock.Anything, "hanoi_hoan_kiem_001").
			Return(nil, repository.ErrNotFound)

		result, err := f.svc.Verify(context.Background(), "hanoi_hoan_kiem_001")

		require.NoError(t, err)
		assert.True(t, result.ExistsInDatabase)
		assert.Nil(t, result.RegisteredOnChain)
		assert.False(t, result.Discovered)
	})

	t.Run("Unknown id reports nothing", func(t *testing.T) {
		f := newTreasureFixture()

		f.treasures.On("GetTreasureByID", mock.Anything, "ghost").
			Return(nil, repository.ErrNotFound)
		f.reader.On("TreasureRegistered", mock.Anything, "ghost").
			Return(false, nil)
		f.discoveries.On("GetDiscoveryByTreasureID", mock.Anything, "ghost").
			Return(nil, repository.ErrNotFound)

		result, err := f.svc.Verify(context.Background(), "ghost")

		require.NoError(t, err)
		assert.False(t, result.ExistsInDatabase)
		require.NotNil(t, result.RegisteredOnChain)
		assert.False(t, *result.RegisteredOnChain)
	})
}

func TestTreasureService_CreateTreasureValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(tr *model.Treasure)
		wantsErr bool
	}{
		{"Valid treasure passes", func(tr *model.Treasure) {}, false},
		{"Bad latitude", func(tr *model.Treasure) { tr.Latitude = 95 }, true},
		{"Bad rarity", func(tr *model.Treasure) { tr.Rarity = "mythic" }, true},
		{"Bad required rank", func(tr *model.Treasure) { tr.RequiredRank = 9 }, true},
		{"Zero reward", func(tr *model.Treasure) { tr.RewardPoints = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTreasureFixture()
			f.treasures.On("CreateTreasure", mock.Anything, mock.Anything).Return(nil)

			treasure := hoanKiemTreasure()
			tt.mutate(treasure)

			err := f.svc.CreateTreasure(context.Background(), treasure)

			if tt.wantsErr {
				assert.Error(t, err)
				f.treasures.AssertNotCalled(t, "CreateTreasure", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				f.treasures.AssertExpectations(t)
			}
		})
	}
}
