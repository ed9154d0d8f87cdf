package mocks

import (
	"context"

	"geohunt_backend/internal/chain"
	"geohunt_backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTreasureRepository struct {
	mock.Mock
}

func (m *MockTreasureRepository) CreateTreasure(ctx context.Context, treasure *model.Treasure) error {
	args := m.Called(ctx, treasure)
	return args.Error(0)
}

func (m *MockTreasureRepository) GetTreasureByID(ctx context.Context, id string) (*model.Treasure, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*model.Treasure), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTreasureRepository) FindNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]*model.Treasure, error) {
	args := m.Called(ctx, lat, lng, radiusMeters)
	if t := args.Get(0); t != nil {
		return t.([]*model.Treasure), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTreasureRepository) ListTreasures(ctx context.Context, includeInactive bool) ([]*model.Treasure, error) {
	args := m.Called(ctx, includeInactive)
	if t := args.Get(0); t != nil {
		return t.([]*model.Treasure), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTreasureRepository) UpdateTreasure(ctx context.Context, treasure *model.Treasure) error {
	args := m.Called(ctx, treasure)
	return args.Error(0)
}

func (m *MockTreasureRepository) DeactivateTreasure(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDiscoveryRepository struct {
	mock.Mock
}

func (m *MockDiscoveryRepository) GetDiscoveryByTreasureID(ctx context.Context, treasureID string) (*model.Discovery, error) {
	args := m.Called(ctx, treasureID)
	if d := args.Get(0); d != nil {
		return d.(*model.Discovery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDiscoveryRepository) GetDiscoveriesByPlayer(ctx context.Context, playerID uuid.UUID) ([]*model.Discovery, error) {
	args := m.Called(ctx, playerID)
	if d := args.Get(0); d != nil {
		return d.([]*model.Discovery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDiscoveryRepository) CommitDiscovery(
	ctx context.Context,
	discovery *model.Discovery,
	apply func(profile model.HunterProfile) model.HunterProfile,
) (*model.HunterProfile, *model.HunterProfile, error) {
	args := m.Called(ctx, discovery, apply)
	var before, after *model.HunterProfile
	if b := args.Get(0); b != nil {
		before = b.(*model.HunterProfile)
	}
	if a := args.Get(1); a != nil {
		after = a.(*model.HunterProfile)
	}
	return before, after, args.Error(2)
}

type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) CreatePlayer(ctx context.Context, player *model.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) GetPlayerByID(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*model.Player), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlayerRepository) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	args := m.Called(ctx, username)
	if p := args.Get(0); p != nil {
		return p.(*model.Player), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlayerRepository) GetProfile(ctx context.Context, playerID uuid.UUID) (*model.HunterProfile, error) {
	args := m.Called(ctx, playerID)
	if p := args.Get(0); p != nil {
		return p.(*model.HunterProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlayerRepository) GetTopProfiles(ctx context.Context, limit int) ([]*model.HunterProfile, error) {
	args := m.Called(ctx, limit)
	if p := args.Get(0); p != nil {
		return p.([]*model.HunterProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockChainGateway struct {
	mock.Mock
}

func (m *MockChainGateway) SubmitClaim(ctx context.Context, credential, profileRef, treasureID, locationProof string) chain.ClaimResult {
	args := m.Called(ctx, credential, profileRef, treasureID, locationProof)
	return args.Get(0).(chain.ClaimResult)
}

type MockChainReader struct {
	mock.Mock
}

func (m *MockChainReader) GetBalance(ctx context.Context, address string) (*chain.Balance, error) {
	args := m.Called(ctx, address)
	if b := args.Get(0); b != nil {
		return b.(*chain.Balance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChainReader) GetOwnedNFTs(ctx context.Context, address string) ([]chain.OwnedNFT, error) {
	args := m.Called(ctx, address)
	if n := args.Get(0); n != nil {
		return n.([]chain.OwnedNFT), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChainReader) TreasureRegistered(ctx context.Context, treasureID string) (bool, error) {
	args := m.Called(ctx, treasureID)
	return args.Bool(0), args.Error(1)
}
