package service

import (
	"context"
	"fmt"
)

type DashboardStats struct {
	Players     int64
	Discoveries int64
	Treasures   int
	Active      int
}

// AdminService backs the admin dashboard counters.
type AdminService struct {
	stats     StatsRepository
	treasures TreasureRepository
}

func NewAdminService(stats StatsRepository, treasures TreasureRepository) *AdminService {
	return &AdminService{stats: stats, treasures: treasures}
}

func (s *AdminService) GetStats(ctx context.Context) (*DashboardStats, error) {
	players, err := s.stats.CountPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}

	discoveries, err := s.stats.CountDiscoveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count discoveries: %w", err)
	}

	treasures, err := s.treasures.ListTreasures(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list treasures: %w", err)
	}

	active := 0
	for _, t := range treasures {
		if t.Active {
			active++
		}
	}

	return &DashboardStats{
		Players:     players,
		Discoveries: discoveries,
		Treasures:   len(treasures),
		Active:      active,
	}, nil
}
