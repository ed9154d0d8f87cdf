package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"geohunt_backend/internal/game"
	"geohunt_backend/internal/geo"
	"geohunt_backend/internal/model"
	"geohunt_backend/internal/repository"

	"github.com/google/uuid"
)

// nearbyResultLimit caps a single nearby query.
const nearbyResultLimit = 20

// NearbyTreasure is a treasure decorated with the caller's distance
// and eligibility.
type NearbyTreasure struct {
	Treasure       *model.Treasure
	DistanceMeters float64
	CanHunt        bool
}

// VerifyResult is the read-only status of a treasure id.
type VerifyResult struct {
	TreasureID        string
	ExistsInDatabase  bool
	Active            bool
	Synthesized       bool
	RegisteredOnChain *bool // nil when the chain could not be reached
	Discovered        bool
	DiscoveredBy      *uuid.UUID
	DiscoveredAt      *time.Time
}

type TreasureService struct {
	treasures   TreasureRepository
	discoveries DiscoveryRepository
	players     PlayerRepository
	reader      ChainReader
}

func NewTreasureService(
	treasures TreasureRepository,
	discoveries DiscoveryRepository,
	players PlayerRepository,
	reader ChainReader,
) *TreasureService {
	return &TreasureService{
		treasures:   treasures,
		discoveries: discoveries,
		players:     players,
		reader:      reader,
	}
}

// FindNearby returns active undiscovered treasures within radiusMeters
// of the point, ordered by ascending distance, capped at the result
// limit, each flagged with the player's eligibility.
func (s *TreasureService) FindNearby(ctx context.Context, playerID uuid.UUID, lat, lng, radiusMeters float64) ([]*NearbyTreasure, error) {
	if !model.ValidCoordinates(lat, lng) {
		return nil, ErrInvalidCoordinates
	}

	profile, err := s.players.GetProfile(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get hunter profile: %w", err)
	}

	candidates, err := s.treasures.FindNearby(ctx, lat, lng, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby treasures: %w", err)
	}

	nearby := make([]*NearbyTreasure, 0, len(candidates))
	for _, t := range candidates {
		distance := geo.Distance(lat, lng, t.Latitude, t.Longitude)
		if distance > radiusMeters {
			continue
		}
		nearby = append(nearby, &NearbyTreasure{
			Treasure:       t,
			DistanceMeters: distance,
			CanHunt:        game.CanHunt(profile.Rank, t.RequiredRank),
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	if len(nearby) > nearbyResultLimit {
		nearby = nearby[:nearbyResultLimit]
	}

	return nearby, nil
}

// Verify reports treasure status without mutating anything. The chain
// registry lookup is best-effort.
func (s *TreasureService) Verify(ctx context.Context, treasureID string) (*VerifyResult, error) {
	result := &VerifyResult{TreasureID: treasureID}

	treasure, err := s.treasures.GetTreasureByID(ctx, treasureID)
	if err == nil {
		result.ExistsInDatabase = true
		result.Active = treasure.Active
		result.Synthesized = treasure.Synthesized
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get treasure: %w", err)
	}

	if s.reader != nil {
		if registered, chainErr := s.reader.TreasureRegistered(ctx, treasureID); chainErr == nil {
			result.RegisteredOnChain = &registered
		}
	}

	discovery, err := s.discoveries.GetDiscoveryByTreasureID(ctx, treasureID)
	if err == nil {
		result.Discovered = true
		result.DiscoveredBy = &discovery.PlayerID
		result.DiscoveredAt = &discovery.DiscoveredAt
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get discovery: %w", err)
	}

	return result, nil
}

// Admin operations.

func (s *TreasureService) CreateTreasure(ctx context.Context, treasure *model.Treasure) error {
	if !model.ValidCoordinates(treasure.Latitude, treasure.Longitude) {
		return ErrInvalidCoordinates
	}
	if !treasure.Rarity.Valid() {
		return fmt.Errorf("invalid rarity %q", treasure.Rarity)
	}
	if !treasure.RequiredRank.Valid() {
		return fmt.Errorf("invalid required rank %d", treasure.RequiredRank)
	}
	if treasure.RewardPoints <= 0 {
		return fmt.Errorf("reward points must be positive")
	}

	return s.treasures.CreateTreasure(ctx, treasure)
}

func (s *TreasureService) UpdateTreasure(ctx context.Context, treasure *model.Treasure) error {
	if !model.ValidCoordinates(treasure.Latitude, treasure.Longitude) {
		return ErrInvalidCoordinates
	}

	err := s.treasures.UpdateTreasure(ctx, treasure)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTreasureNotFound
		}
		return err
	}
	return nil
}

func (s *TreasureService) DeactivateTreasure(ctx context.Context, id string) error {
	err := s.treasures.DeactivateTreasure(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTreasureNotFound
		}
		return err
	}
	return nil
}

func (s *TreasureService) ListTreasures(ctx context.Context, includeInactive bool) ([]*model.Treasure, error) {
	return s.treasures.ListTreasures(ctx, includeInactive)
}
