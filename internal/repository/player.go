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

type playerRow struct {
	ID              uuid.UUID `db:"id"`
	Username        string    `db:"username"`
	PasswordHash    string    `db:"password_hash"`
	WalletAddress   string    `db:"wallet_address"`
	ChainCredential string    `db:"chain_credential"`
	IsAdmin         bool      `db:"is_admin"`
	CreatedAt       time.Time `db:"created_at"`
}

func (row *playerRow) toModel() *model.Player {
	return &model.Player{
		ID:              row.ID,
		Username:        row.Username,
		PasswordHash:    row.PasswordHash,
		WalletAddress:   row.WalletAddress,
		ChainCredential: row.ChainCredential,
		IsAdmin:         row.IsAdmin,
		CreatedAt:       row.CreatedAt,
	}
}

type profileRow struct {
	PlayerID       uuid.UUID  `db:"player_id"`
	Rank           int        `db:"rank"`
	TreasuresFound int        `db:"treasures_found"`
	TotalScore     int        `db:"total_score"`
	CurrentStreak  int        `db:"current_streak"`
	LongestStreak  int        `db:"longest_streak"`
	LastHuntAt     *time.Time `db:"last_hunt_at"`
}

func (row *profileRow) toModel() *model.HunterProfile {
	return &model.HunterProfile{
		PlayerID:       row.PlayerID,
		Rank:           model.Rank(row.Rank),
		TreasuresFound: row.TreasuresFound,
		TotalScore:     row.TotalScore,
		CurrentStreak:  row.CurrentStreak,
		LongestStreak:  row.LongestStreak,
		LastHuntAt:     row.LastHuntAt,
	}
}

// CreatePlayer inserts the player and its hunter profile with default
// progression in one transaction.
func (r *Repository) CreatePlayer(ctx context.Context, player *model.Player) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("players").
			SetMap(map[string]interface{}{
				"id":               player.ID,
				"username":         player.Username,
				"password_hash":    player.PasswordHash,
				"wallet_address":   player.WalletAddress,
				"chain_credential": player.ChainCredential,
				"is_admin":         player.IsAdmin,
				"created_at":       player.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build player insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("failed to insert player: %w", err)
		}

		profileQuery, profileArgs, err := squirrel.
			Insert("hunter_profiles").
			SetMap(map[string]interface{}{
				"player_id":       player.ID,
				"rank":            int(model.RankBeginner),
				"treasures_found": 0,
				"total_score":     0,
				"current_streak":  0,
				"longest_streak":  0,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build profile insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, profileQuery, profileArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert hunter profile: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetPlayerByID(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	query, args, err := squirrel.
		Select("*").
		From("players").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row playerRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	query, args, err := squirrel.
		Select("*").
		From("players").
		Where(squirrel.Eq{"username": username}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row playerRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetProfile(ctx context.Context, playerID uuid.UUID) (*model.HunterProfile, error) {
	query, args, err := squirrel.
		Select("*").
		From("hunter_profiles").
		Where(squirrel.Eq{"player_id": playerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row profileRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetTopProfiles(ctx context.Context, limit int) ([]*model.HunterProfile, error) {
	query, args, err := squirrel.
		Select("*").
		From("hunter_profiles").
		OrderBy("total_score DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get top profiles: %w", err)
	}

	profiles := make([]*model.HunterProfile, len(rows))
	for i := range rows {
		profiles[i] = rows[i].toModel()
	}
	return profiles, nil
}

func (r *Repository) CountPlayers(ctx context.Context) (int64, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("players").
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
