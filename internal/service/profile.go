package service

import (
	"context"
	"errors"
	"fmt"

	"geohunt_backend/internal/game"
	"geohunt_backend/internal/model"
	"geohunt_backend/internal/repository"

	"github.com/google/uuid"
)

const leaderboardLimit = 100

type ProfileService struct {
	players     PlayerRepository
	discoveries DiscoveryRepository
}

func NewProfileService(players PlayerRepository, discoveries DiscoveryRepository) *ProfileService {
	return &ProfileService{
		players:     players,
		discoveries: discoveries,
	}
}

// ProfileView is the profile with its derived progression hint.
type ProfileView struct {
	Profile             *model.HunterProfile
	TreasuresToNextRank int
}

func (s *ProfileService) GetProfile(ctx context.Context, playerID uuid.UUID) (*ProfileView, error) {
	profile, err := s.players.GetProfile(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get hunter profile: %w", err)
	}

	return &ProfileView{
		Profile:             profile,
		TreasuresToNextRank: game.TreasuresToNextRank(profile.TreasuresFound),
	}, nil
}

func (s *ProfileService) GetLeaderboard(ctx context.Context) ([]*model.HunterProfile, error) {
	profiles, err := s.players.GetTopProfiles(ctx, leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top profiles: %w", err)
	}
	return profiles, nil
}

func (s *ProfileService) GetDiscoveries(ctx context.Context, playerID uuid.UUID) ([]*model.Discovery, error) {
	discoveries, err := s.discoveries.GetDiscoveriesByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player discoveries: %w", err)
	}
	return discoveries, nil
}
