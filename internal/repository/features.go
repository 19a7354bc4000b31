package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/rs/zerolog"
)

// FeatureRepository stores the per-fight feature rows produced by the
// aggregation run. The table is rebuilt from the ledger each run.
type FeatureRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewFeatureRepository(db *sql.DB, logger zerolog.Logger) *FeatureRepository {
	return &FeatureRepository{db: db, logger: logger}
}

// Reset clears the feature table ahead of a rebuild.
func (r *FeatureRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fight_features`); err != nil {
		return fmt.Errorf("reset fight features: %w", err)
	}
	return nil
}

func (r *FeatureRepository) Insert(ctx context.Context, row *domain.FightFeatureRow) error {
	redSnap, err := json.Marshal(row.Red)
	if err != nil {
		return fmt.Errorf("marshal red snapshot: %w", err)
	}
	blueSnap, err := json.Marshal(row.Blue)
	if err != nil {
		return fmt.Errorf("marshal blue snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO fight_features (id, fight_id, event_date, outcome, red_snapshot, blue_snapshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fight_id) DO UPDATE SET
			event_date = excluded.event_date,
			outcome = excluded.outcome,
			red_snapshot = excluded.red_snapshot,
			blue_snapshot = excluded.blue_snapshot,
			created_at = excluded.created_at`,
		row.ID, row.FightID, row.EventDate, string(row.Outcome), redSnap, blueSnap, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feature row for fight %s: %w", row.FightID, err)
	}
	return nil
}

func (r *FeatureRepository) Get(ctx context.Context, fightID string) (*domain.FightFeatureRow, error) {
	var row domain.FightFeatureRow
	var outcome string
	var redSnap, blueSnap []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT id, fight_id, event_date, outcome, red_snapshot, blue_snapshot, created_at
		FROM fight_features WHERE fight_id = ?`, fightID).Scan(
		&row.ID, &row.FightID, &row.EventDate, &outcome, &redSnap, &blueSnap, &row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	row.Outcome = domain.Outcome(outcome)
	if err := json.Unmarshal(redSnap, &row.Red); err != nil {
		return nil, fmt.Errorf("unmarshal red snapshot for %s: %w", fightID, err)
	}
	if err := json.Unmarshal(blueSnap, &row.Blue); err != nil {
		return nil, fmt.Errorf("unmarshal blue snapshot for %s: %w", fightID, err)
	}
	return &row, nil
}

func (r *FeatureRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fight_features`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count feature rows: %w", err)
	}
	return count, nil
}

// Latest returns a fighter's most recent feature-row snapshot for matchup
// assembly by downstream consumers.
func (r *FeatureRepository) Latest(ctx context.Context, fighterID string) (*domain.FighterSnapshot, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT CASE WHEN f.red_fighter_id = ? THEN ff.red_snapshot ELSE ff.blue_snapshot END
		FROM fight_features ff
		JOIN fights f ON f.fight_id = ff.fight_id
		WHERE f.red_fighter_id = ? OR f.blue_fighter_id = ?
		ORDER BY ff.event_date DESC
		LIMIT 1`, fighterID, fighterID, fighterID).Scan(&payload)
	if err != nil {
		return nil, err
	}

	var snap domain.FighterSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot for %s: %w", fighterID, err)
	}
	return &snap, nil
}
