package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"geohunt_backend/internal/chain"
	"geohunt_backend/internal/game"
	"geohunt_backend/internal/geo"
	"geohunt_backend/internal/model"
	"geohunt_backend/internal/repository"
	"geohunt_backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// synthesizedBaseReward is the reward floor for treasures created on
// the degraded path. Claimed input never sets rarity or reward.
const synthesizedBaseReward = 100

type DiscoverRequest struct {
	PlayerID      uuid.UUID
	TreasureID    string
	Latitude      float64
	Longitude     float64
	LocationProof string
	NFCData       string
	QRData        string
}

type DiscoveryResult struct {
	DiscoveryID    uuid.UUID
	TreasureID     string
	TreasureName   string
	Rarity         model.Rarity
	RewardPoints   int
	DistanceMeters float64

	Offline     bool
	NFTRef      string
	TxRef       string
	BlockHeight int64
	GasUsed     int64

	OldRank        model.Rank
	NewRank        model.Rank
	RankUpgraded   bool
	ScoreDelta     int
	TotalScore     int
	TreasuresFound int
	CurrentStreak  int
	LongestStreak  int

	DiscoveredAt time.Time
}

// claimProof is the location-proof payload persisted with the
// discovery and forwarded to the chain.
type claimProof struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Proof          string  `json:"proof,omitempty"`
	NFCData        string  `json:"nfc_data,omitempty"`
	QRData         string  `json:"qr_data,omitempty"`
	DistanceMeters float64 `json:"distance_m"`
	Timestamp      int64   `json:"timestamp"`
}

// DiscoveryService coordinates the full claim pipeline: resolve,
// uniqueness, proximity, eligibility, chain attempt, commit, report.
type DiscoveryService struct {
	treasures   TreasureRepository
	discoveries DiscoveryRepository
	players     PlayerRepository
	gateway     ChainGateway
	announcers  []DiscoveryAnnouncer

	allowSynthesis bool
	now            func() time.Time
}

func NewDiscoveryService(
	treasures TreasureRepository,
	discoveries DiscoveryRepository,
	players PlayerRepository,
	gateway ChainGateway,
	allowSynthesis bool,
	announcers ...DiscoveryAnnouncer,
) *DiscoveryService {
	return &DiscoveryService{
		treasures:      treasures,
		discoveries:    discoveries,
		players:        players,
		gateway:        gateway,
		announcers:     announcers,
		allowSynthesis: allowSynthesis,
		now:            time.Now,
	}
}

// Discover runs one claim attempt. Every failure before the commit
// leaves the ledger and profile untouched; the unique index on the
// ledger is the only synchronization point between racing claims.
func (s *DiscoveryService) Discover(ctx context.Context, req *DiscoverRequest) (*DiscoveryResult, error) {
	log := logger.Logger().With(
		zap.String("treasure_id", req.TreasureID),
		zap.String("player_id", req.PlayerID.String()),
	)

	if !model.ValidCoordinates(req.Latitude, req.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	treasure, err := s.resolveTreasure(ctx, req)
	if err != nil {
		return nil, err
	}

	// Fast-fail on a known prior claim; the authoritative check is the
	// unique constraint at commit time.
	prior, err := s.discoveries.GetDiscoveryByTreasureID(ctx, req.TreasureID)
	if err == nil {
		return nil, &AlreadyDiscoveredError{
			TreasureID:   req.TreasureID,
			PlayerID:     prior.PlayerID,
			DiscoveredAt: prior.DiscoveredAt,
		}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check prior discovery: %w", err)
	}

	distance := geo.Distance(req.Latitude, req.Longitude, treasure.Latitude, treasure.Longitude)
	if !geo.WithinTolerance(distance, geo.DiscoveryToleranceMeters) {
		claimsRejected.WithLabelValues("too_far").Inc()
		return nil, &TooFarError{
			DistanceMeters:  distance,
			ToleranceMeters: geo.DiscoveryToleranceMeters,
		}
	}

	player, err := s.players.GetPlayerByID(ctx, req.PlayerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	profile, err := s.players.GetProfile(ctx, req.PlayerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get hunter profile: %w", err)
	}

	if !game.CanHunt(profile.Rank, treasure.RequiredRank) {
		claimsRejected.WithLabelValues("rank_too_low").Inc()
		return nil, &RankTooLowError{
			PlayerRank:      profile.Rank,
			RequiredRank:    treasure.RequiredRank,
			TreasuresNeeded: game.TreasuresToNextRank(profile.TreasuresFound),
		}
	}

	proof := claimProof{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Proof:          req.LocationProof,
		NFCData:        req.NFCData,
		QRData:         req.QRData,
		DistanceMeters: distance,
		Timestamp:      s.now().Unix(),
	}
	proofPayload, err := json.Marshal(proof)
	if err != nil {
		return nil, fmt.Errorf("failed to encode location proof: %w", err)
	}

	discovery := &model.Discovery{
		ID:               uuid.New(),
		PlayerID:         req.PlayerID,
		TreasureID:       treasure.ID,
		ClaimedLatitude:  req.Latitude,
		ClaimedLongitude: req.Longitude,
		ProofPayload:     string(proofPayload),
		DistanceMeters:   distance,
		DiscoveredAt:     s.now().UTC(),
	}

	if player.HasChainCredentials() {
		chainCtx, cancel := context.WithTimeout(ctx, chain.SubmitTimeout)
		result := s.gateway.SubmitClaim(chainCtx, player.ChainCredential,
			player.ID.String(), treasure.ID, string(proofPayload))
		cancel()

		switch {
		case result.Rejected != nil:
			claimsRejected.WithLabelValues("chain_rejected").Inc()
			return nil, &ChainRejectedError{Reason: *result.Rejected}
		case result.Minted != nil:
			discovery.NFTRef = result.Minted.NFTRef
			discovery.TxRef = result.Minted.TxRef
			discovery.BlockHeight = result.Minted.BlockHeight
			discovery.GasUsed = result.Minted.GasUsed
			discovery.ChainSuccess = true
		default:
			cause := chain.CauseUnknown
			if result.Unavailable != nil {
				cause = *result.Unavailable
			}
			log.Warn("chain unavailable, recording offline discovery",
				zap.String("cause", string(cause)))
			s.markOffline(discovery)
		}
	} else {
		s.markOffline(discovery)
	}

	apply := func(p model.HunterProfile) model.HunterProfile {
		return game.ApplyDiscovery(p, treasure.RewardPoints, discovery.DiscoveredAt)
	}

	before, after, err := s.discoveries.CommitDiscovery(ctx, discovery, apply)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyDiscovered) {
			// Lost the race at the linearization point.
			if prior, getErr := s.discoveries.GetDiscoveryByTreasureID(ctx, req.TreasureID); getErr == nil {
				return nil, &AlreadyDiscoveredError{
					TreasureID:   req.TreasureID,
					PlayerID:     prior.PlayerID,
					DiscoveredAt: prior.DiscoveredAt,
				}
			}
			return nil, &AlreadyDiscoveredError{TreasureID: req.TreasureID}
		}
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to commit discovery: %w", err)
	}

	outcome := "online"
	if discovery.Offline {
		outcome = "offline"
	}
	claimsCommitted.WithLabelValues(outcome).Inc()

	log.Info("discovery committed",
		zap.String("discovery_id", discovery.ID.String()),
		zap.Float64("distance_m", distance),
		zap.Bool("offline", discovery.Offline))

	event := model.DiscoveryEvent{
		DiscoveryID:  discovery.ID,
		PlayerID:     discovery.PlayerID,
		TreasureID:   treasure.ID,
		TreasureName: treasure.Name,
		Rarity:       treasure.Rarity,
		RewardPoints: treasure.RewardPoints,
		Offline:      discovery.Offline,
		DiscoveredAt: discovery.DiscoveredAt,
	}
	for _, a := range s.announcers {
		a.AnnounceDiscovery(event)
	}

	return &DiscoveryResult{
		DiscoveryID:    discovery.ID,
		TreasureID:     treasure.ID,
		TreasureName:   treasure.Name,
		Rarity:         treasure.Rarity,
		RewardPoints:   treasure.RewardPoints,
		DistanceMeters: distance,
		Offline:        discovery.Offline,
		NFTRef:         discovery.NFTRef,
		TxRef:          discovery.TxRef,
		BlockHeight:    discovery.BlockHeight,
		GasUsed:        discovery.GasUsed,
		OldRank:        before.Rank,
		NewRank:        after.Rank,
		RankUpgraded:   after.Rank > before.Rank,
		ScoreDelta:     after.TotalScore - before.TotalScore,
		TotalScore:     after.TotalScore,
		TreasuresFound: after.TreasuresFound,
		CurrentStreak:  after.CurrentStreak,
		LongestStreak:  after.LongestStreak,
		DiscoveredAt:   discovery.DiscoveredAt,
	}, nil
}

// resolveTreasure looks up the claimed treasure, synthesizing a
// minimal one from the id and claimed coordinates when permitted.
// Inactive treasures are treated as absent.
func (s *DiscoveryService) resolveTreasure(ctx context.Context, req *DiscoverRequest) (*model.Treasure, error) {
	treasure, err := s.treasures.GetTreasureByID(ctx, req.TreasureID)
	if err == nil {
		if !treasure.Active {
			return nil, ErrTreasureNotFound
		}
		return treasure, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get treasure: %w", err)
	}

	if !s.allowSynthesis {
		return nil, ErrTreasureNotFound
	}

	synthesized := s.synthesizeTreasure(req)
	if createErr := s.treasures.CreateTreasure(ctx, synthesized); createErr != nil {
		if errors.Is(createErr, repository.ErrAlreadyExists) {
			// Raced with another synthesizing claim; use the winner's row.
			return s.treasures.GetTreasureByID(ctx, req.TreasureID)
		}
		return nil, fmt.Errorf("failed to synthesize treasure: %w", createErr)
	}

	logger.Logger().Info("synthesized treasure on degraded path",
		zap.String("treasure_id", req.TreasureID))
	treasuresSynthesized.Inc()

	return synthesized, nil
}

// synthesizeTreasure builds the floor-value treasure used on the
// degraded path: Common, minimum rank, base reward. Claimed input only
// provides identity and position.
func (s *DiscoveryService) synthesizeTreasure(req *DiscoverRequest) *model.Treasure {
	name := strings.ReplaceAll(req.TreasureID, "_", " ")
	now := s.now().UTC()
	return &model.Treasure{
		ID:           req.TreasureID,
		Name:         name,
		Description:  "Discovered in the field",
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Rarity:       model.RarityCommon,
		RewardPoints: synthesizedBaseReward,
		RequiredRank: model.RankBeginner,
		Active:       true,
		Synthesized:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *DiscoveryService) markOffline(d *model.Discovery) {
	d.Offline = true
	d.ChainSuccess = false
	d.NFTRef = "offline-nft-" + d.ID.String()
	d.TxRef = "offline-tx-" + d.ID.String()
}
