package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geohunt_backend/internal/chain"
	"geohunt_backend/internal/model"

	"github.com/google/uuid"
)

var (
	ErrTreasureNotFound   = errors.New("treasure not found")
	ErrProfileNotFound    = errors.New("hunter profile not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// AlreadyDiscoveredError reports the prior claim that blocks this one.
type AlreadyDiscoveredError struct {
	TreasureID   string
	PlayerID     uuid.UUID
	DiscoveredAt time.Time
}

func (e *AlreadyDiscoveredError) Error() string {
	return fmt.Sprintf("treasure %s already discovered by %s at %s",
		e.TreasureID, e.PlayerID, e.DiscoveredAt.Format(time.RFC3339))
}

// TooFarError reports the measured distance against the tolerance.
type TooFarError struct {
	DistanceMeters  float64
	ToleranceMeters float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("too far from treasure: %.1fm (tolerance %.1fm)",
		e.DistanceMeters, e.ToleranceMeters)
}

// RankTooLowError reports both ordinals and the distance to the
// required rank.
type RankTooLowError struct {
	PlayerRank      model.Rank
	RequiredRank    model.Rank
	TreasuresNeeded int
}

func (e *RankTooLowError) Error() string {
	return fmt.Sprintf("rank %s insufficient, requires %s (%d more treasures needed)",
		e.PlayerRank, e.RequiredRank, e.TreasuresNeeded)
}

// ChainRejectedError is a fatal on-chain verdict; the claim aborts
// with no ledger write.
type ChainRejectedError struct {
	Reason chain.RejectionReason
}

func (e *ChainRejectedError) Error() string {
	return fmt.Sprintf("claim rejected on chain: %s", e.Reason)
}

type TreasureRepository interface {
	CreateTreasure(ctx context.Context, treasure *model.Treasure) error
	GetTreasureByID(ctx context.Context, id string) (*model.Treasure, error)
	FindNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]*model.Treasure, error)
	ListTreasures(ctx context.Context, includeInactive bool) ([]*model.Treasure, error)
	UpdateTreasure(ctx context.Context, treasure *model.Treasure) error
	DeactivateTreasure(ctx context.Context, id string) error
}

type DiscoveryRepository interface {
	GetDiscoveryByTreasureID(ctx context.Context, treasureID string) (*model.Discovery, error)
	GetDiscoveriesByPlayer(ctx context.Context, playerID uuid.UUID) ([]*model.Discovery, error)
	CommitDiscovery(ctx context.Context, discovery *model.Discovery,
		apply func(profile model.HunterProfile) model.HunterProfile) (*model.HunterProfile, *model.HunterProfile, error)
}

type PlayerRepository interface {
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayerByID(ctx context.Context, id uuid.UUID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)
	GetProfile(ctx context.Context, playerID uuid.UUID) (*model.HunterProfile, error)
	GetTopProfiles(ctx context.Context, limit int) ([]*model.HunterProfile, error)
}

type StatsRepository interface {
	CountPlayers(ctx context.Context) (int64, error)
	CountDiscoveries(ctx context.Context) (int64, error)
}

// ChainGateway submits claims; failures come back classified, never as
// plain errors.
type ChainGateway interface {
	SubmitClaim(ctx context.Context, credential, profileRef, treasureID, locationProof string) chain.ClaimResult
}

// ChainReader covers the read-only chain surface used by the verify
// and wallet endpoints.
type ChainReader interface {
	GetBalance(ctx context.Context, address string) (*chain.Balance, error)
	GetOwnedNFTs(ctx context.Context, address string) ([]chain.OwnedNFT, error)
	TreasureRegistered(ctx context.Context, treasureID string) (bool, error)
}

// DiscoveryAnnouncer receives committed discoveries for fan-out
// (websocket feed, telegram channel). Implementations must not block.
type DiscoveryAnnouncer interface {
	AnnounceDiscovery(event model.DiscoveryEvent)
}
