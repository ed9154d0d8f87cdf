package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"geohunt_backend/internal/geo"
	"geohunt_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type treasureRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Description  string         `db:"description"`
	Latitude     float64        `db:"latitude"`
	Longitude    float64        `db:"longitude"`
	Rarity       string         `db:"rarity"`
	RewardPoints int            `db:"reward_points"`
	RequiredRank int            `db:"required_rank"`
	Active       bool           `db:"active"`
	ImageRef     string         `db:"image_ref"`
	Tags         pq.StringArray `db:"tags"`
	Metadata     []byte         `db:"metadata"`
	Synthesized  bool           `db:"synthesized"`
	ActivateAt   *time.Time     `db:"activate_at"`
	DeactivateAt *time.Time     `db:"deactivate_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (row *treasureRow) toModel() (*model.Treasure, error) {
	var metadata map[string]interface{}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode treasure metadata: %w", err)
		}
	}

	return &model.Treasure{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		Latitude:     row.Latitude,
		Longitude:    row.Longitude,
		Rarity:       model.Rarity(row.Rarity),
		RewardPoints: row.RewardPoints,
		RequiredRank: model.Rank(row.RequiredRank),
		Active:       row.Active,
		ImageRef:     row.ImageRef,
		Tags:         []string(row.Tags),
		Metadata:     metadata,
		Synthesized:  row.Synthesized,
		ActivateAt:   row.ActivateAt,
		DeactivateAt: row.DeactivateAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func treasureInsertMap(t *model.Treasure, now time.Time) (map[string]interface{}, error) {
	metadata := []byte("{}")
	if t.Metadata != nil {
		encoded, err := json.Marshal(t.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode treasure metadata: %w", err)
		}
		metadata = encoded
	}

	return map[string]interface{}{
		"id":            t.ID,
		"name":          t.Name,
		"description":   t.Description,
		"latitude":      t.Latitude,
		"longitude":     t.Longitude,
		"rarity":        string(t.Rarity),
		"reward_points": t.RewardPoints,
		"required_rank": int(t.RequiredRank),
		"active":        t.Active,
		"image_ref":     t.ImageRef,
		"tags":          pq.StringArray(t.Tags),
		"metadata":      metadata,
		"synthesized":   t.Synthesized,
		"activate_at":   t.ActivateAt,
		"deactivate_at": t.DeactivateAt,
		"created_at":    now,
		"updated_at":    now,
	}, nil
}

func (r *Repository) CreateTreasure(ctx context.Context, treasure *model.Treasure) error {
	setMap, err := treasureInsertMap(treasure, time.Now().UTC())
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Insert("treasures").
		SetMap(setMap).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build treasure insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert treasure: %w", err)
	}

	return nil
}

func (r *Repository) GetTreasureByID(ctx context.Context, id string) (*model.Treasure, error) {
	query, args, err := squirrel.
		Select("*").
		From("treasures").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row treasureRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel()
}

// FindNearby returns active treasures inside a bounding box around the
// point that have no discovery row yet. Exact distance ordering is done
// by the caller; the box is only a prefilter.
func (r *Repository) FindNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]*model.Treasure, error) {
	latDelta, lngDelta := geo.BoundingBox(lat, radiusMeters)

	query, args, err := squirrel.
		Select("t.*").
		From("treasures t").
		LeftJoin("discoveries d ON d.treasure_id = t.id").
		Where("d.id IS NULL").
		Where(squirrel.Eq{"t.active": true}).
		Where(squirrel.Expr("t.latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta)).
		Where(squirrel.Expr("t.longitude BETWEEN ? AND ?", lng-lngDelta, lng+lngDelta)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build nearby query: %w", err)
	}

	var rows []treasureRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby treasures: %w", err)
	}

	treasures := make([]*model.Treasure, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		treasures = append(treasures, t)
	}

	return treasures, nil
}

func (r *Repository) ListTreasures(ctx context.Context, includeInactive bool) ([]*model.Treasure, error) {
	builder := squirrel.
		Select("*").
		From("treasures").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if !includeInactive {
		builder = builder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []treasureRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list treasures: %w", err)
	}

	treasures := make([]*model.Treasure, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		treasures = append(treasures, t)
	}

	return treasures, nil
}

// UpdateTreasure rewrites admin-editable fields. Rarity and reward are
// frozen once the treasure has a discovery row.
func (r *Repository) UpdateTreasure(ctx context.Context, treasure *model.Treasure) error {
	metadata := []byte("{}")
	if treasure.Metadata != nil {
		encoded, err := json.Marshal(treasure.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode treasure metadata: %w", err)
		}
		metadata = encoded
	}

	setMap := map[string]interface{}{
		"name":          treasure.Name,
		"description":   treasure.Description,
		"latitude":      treasure.Latitude,
		"longitude":     treasure.Longitude,
		"active":        treasure.Active,
		"image_ref":     treasure.ImageRef,
		"tags":          pq.StringArray(treasure.Tags),
		"metadata":      metadata,
		"activate_at":   treasure.ActivateAt,
		"deactivate_at": treasure.DeactivateAt,
		"updated_at":    time.Now().UTC(),
	}

	discovered, err := r.treasureDiscovered(ctx, treasure.ID)
	if err != nil {
		return err
	}
	if !discovered {
		setMap["rarity"] = string(treasure.Rarity)
		setMap["reward_points"] = treasure.RewardPoints
		setMap["required_rank"] = int(treasure.RequiredRank)
	}

	query, args, err := squirrel.
		Update("treasures").
		SetMap(setMap).
		Where(squirrel.Eq{"id": treasure.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update treasure: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

// DeactivateTreasure soft-deletes; treasure rows are never removed
// once they may have been discovered.
func (r *Repository) DeactivateTreasure(ctx context.Context, id string) error {
	query, args, err := squirrel.
		Update("treasures").
		Set("active", false).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to deactivate treasure: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

// SweepScheduledTreasures flips rows whose activation or deactivation
// time has passed. Returns how many rows changed in each direction.
func (r *Repository) SweepScheduledTreasures(ctx context.Context, now time.Time) (activated, deactivated int64, err error) {
	activateQuery, activateArgs, err := squirrel.
		Update("treasures").
		Set("active", true).
		Set("activate_at", nil).
		Set("updated_at", now).
		Where(squirrel.Eq{"active": false}).
		Where(squirrel.Expr("activate_at IS NOT NULL AND activate_at <= ?", now)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, 0, err
	}

	res, err := r.db.ExecContext(ctx, activateQuery, activateArgs...)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to activate scheduled treasures: %w", err)
	}
	activated, _ = res.RowsAffected()

	deactivateQuery, deactivateArgs, err := squirrel.
		Update("treasures").
		Set("active", false).
		Set("deactivate_at", nil).
		Set("updated_at", now).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Expr("deactivate_at IS NOT NULL AND deactivate_at <= ?", now)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return activated, 0, err
	}

	res, err = r.db.ExecContext(ctx, deactivateQuery, deactivateArgs...)
	if err != nil {
		return activated, 0, fmt.Errorf("failed to deactivate expired treasures: %w", err)
	}
	deactivated, _ = res.RowsAffected()

	return activated, deactivated, nil
}

func (r *Repository) treasureDiscovered(ctx context.Context, treasureID string) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From("discoveries").
		Where(squirrel.Eq{"treasure_id": treasureID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.GetContext(ctx, &one, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isUniqueViolation reports whether err is a postgres unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
