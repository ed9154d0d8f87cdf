package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"geohunt_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type discoveryRow struct {
	ID               uuid.UUID `db:"id"`
	PlayerID         uuid.UUID `db:"player_id"`
	TreasureID       string    `db:"treasure_id"`
	NFTRef           string    `db:"nft_ref"`
	TxRef            string    `db:"tx_ref"`
	ClaimedLatitude  float64   `db:"claimed_lat"`
	ClaimedLongitude float64   `db:"claimed_lng"`
	ProofPayload     string    `db:"proof_payload"`
	DistanceMeters   float64   `db:"distance_m"`
	ChainSuccess     bool      `db:"chain_success"`
	GasUsed          int64     `db:"gas_used"`
	BlockHeight      int64     `db:"block_height"`
	Offline          bool      `db:"offline"`
	DiscoveredAt     time.Time `db:"discovered_at"`
}

func (row *discoveryRow) toModel() *model.Discovery {
	return &model.Discovery{
		ID:               row.ID,
		PlayerID:         row.PlayerID,
		TreasureID:       row.TreasureID,
		NFTRef:           row.NFTRef,
		TxRef:            row.TxRef,
		ClaimedLatitude:  row.ClaimedLatitude,
		ClaimedLongitude: row.ClaimedLongitude,
		ProofPayload:     row.ProofPayload,
		DistanceMeters:   row.DistanceMeters,
		ChainSuccess:     row.ChainSuccess,
		GasUsed:          row.GasUsed,
		BlockHeight:      row.BlockHeight,
		Offline:          row.Offline,
		DiscoveredAt:     row.DiscoveredAt,
	}
}

func (r *Repository) GetDiscoveryByTreasureID(ctx context.Context, treasureID string) (*model.Discovery, error) {
	query, args, err := squirrel.
		Select("*").
		From("discoveries").
		Where(squirrel.Eq{"treasure_id": treasureID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row discoveryRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetDiscoveriesByPlayer(ctx context.Context, playerID uuid.UUID) ([]*model.Discovery, error) {
	query, args, err := squirrel.
		Select("*").
		From("discoveries").
		Where(squirrel.Eq{"player_id": playerID}).
		OrderBy("discovered_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []discoveryRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get player discoveries: %w", err)
	}

	discoveries := make([]*model.Discovery, len(rows))
	for i := range rows {
		discoveries[i] = rows[i].toModel()
	}
	return discoveries, nil
}

func (r *Repository) CountDiscoveries(ctx context.Context) (int64, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("discoveries").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

// CommitDiscovery writes the discovery row and applies the progression
// to the owning profile in one transaction. The unique index on
// discoveries.treasure_id is the at-most-once guard: a concurrent
// winner makes the insert fail with 23505, surfaced as
// ErrAlreadyDiscovered with zero writes. The profile row is locked
// FOR UPDATE so same-player claims serialize across processes.
func (r *Repository) CommitDiscovery(
	ctx context.Context,
	discovery *model.Discovery,
	apply func(profile model.HunterProfile) model.HunterProfile,
) (before *model.HunterProfile, after *model.HunterProfile, err error) {
	err = r.Transaction(ctx, func(tx *sqlx.Tx) error {
		insertQuery, insertArgs, err := squirrel.
			Insert("discoveries").
			SetMap(map[string]interface{}{
				"id":            discovery.ID,
				"player_id":     discovery.PlayerID,
				"treasure_id":   discovery.TreasureID,
				"nft_ref":       discovery.NFTRef,
				"tx_ref":        discovery.TxRef,
				"claimed_lat":   discovery.ClaimedLatitude,
				"claimed_lng":   discovery.ClaimedLongitude,
				"proof_payload": discovery.ProofPayload,
				"distance_m":    discovery.DistanceMeters,
				"chain_success": discovery.ChainSuccess,
				"gas_used":      discovery.GasUsed,
				"block_height":  discovery.BlockHeight,
				"offline":       discovery.Offline,
				"discovered_at": discovery.DiscoveredAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build discovery insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyDiscovered
			}
			return fmt.Errorf("failed to insert discovery: %w", err)
		}

		lockQuery, lockArgs, err := squirrel.
			Select("*").
			From("hunter_profiles").
			Where(squirrel.Eq{"player_id": discovery.PlayerID}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var row profileRow
		err = tx.GetContext(ctx, &row, lockQuery, lockArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProfileNotFound
			}
			return err
		}

		current := row.toModel()
		updated := apply(*current)

		updateQuery, updateArgs, err := squirrel.
			Update("hunter_profiles").
			SetMap(map[string]interface{}{
				"rank":            int(updated.Rank),
				"treasures_found": updated.TreasuresFound,
				"total_score":     updated.TotalScore,
				"current_streak":  updated.CurrentStreak,
				"longest_streak":  updated.LongestStreak,
				"last_hunt_at":    updated.LastHuntAt,
			}).
			Where(squirrel.Eq{"player_id": discovery.PlayerID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update hunter profile: %w", err)
		}

		before = current
		after = &updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}
