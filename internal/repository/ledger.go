package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/rs/zerolog"
)

// LedgerRepository is the append-only store of fight and fighter rows.
// Harvest units run concurrently, so the row append is serialized behind a
// single mutex held only for the duration of one write. Rows are immutable;
// corrections go through ReplaceFight after a re-fetch.
type LedgerRepository struct {
	db       *sql.DB
	logger   zerolog.Logger
	appendMu sync.Mutex
}

func NewLedgerRepository(db *sql.DB, logger zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger}
}

func (r *LedgerRepository) AppendFight(ctx context.Context, fight *domain.Fight) error {
	redStats, blueStats, redRounds, blueRounds, err := marshalStats(fight)
	if err != nil {
		return err
	}

	r.appendMu.Lock()
	defer r.appendMu.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO fights (
			fight_id, event_name, event_date, location,
			red_fighter_id, blue_fighter_id, red_fighter_name, blue_fighter_name,
			outcome, method, end_round, end_time, scheduled_rounds, referee,
			red_stats, blue_stats, red_rounds, blue_rounds, degraded, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fight_id) DO NOTHING`,
		fight.FightID, fight.EventName, fight.EventDate, fight.Location,
		fight.RedFighterID, fight.BlueFighterID, fight.RedFighterName, fight.BlueFighterName,
		string(fight.Outcome), fight.Method, fight.EndRound, fight.EndTime, fight.ScheduledRounds, fight.Referee,
		redStats, blueStats, redRounds, blueRounds, fight.Degraded, fight.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append fight %s: %w", fight.FightID, err)
	}
	return nil
}

// ReplaceFight swaps a previously appended row for a freshly fetched one.
func (r *LedgerRepository) ReplaceFight(ctx context.Context, fight *domain.Fight) error {
	redStats, blueStats, redRounds, blueRounds, err := marshalStats(fight)
	if err != nil {
		return err
	}

	r.appendMu.Lock()
	defer r.appendMu.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO fights (
			fight_id, event_name, event_date, location,
			red_fighter_id, blue_fighter_id, red_fighter_name, blue_fighter_name,
			outcome, method, end_round, end_time, scheduled_rounds, referee,
			red_stats, blue_stats, red_rounds, blue_rounds, degraded, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fight.FightID, fight.EventName, fight.EventDate, fight.Location,
		fight.RedFighterID, fight.BlueFighterID, fight.RedFighterName, fight.BlueFighterName,
		string(fight.Outcome), fight.Method, fight.EndRound, fight.EndTime, fight.ScheduledRounds, fight.Referee,
		redStats, blueStats, redRounds, blueRounds, fight.Degraded, fight.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("replace fight %s: %w", fight.FightID, err)
	}
	return nil
}

// UpsertFighter writes a profile row. A partial shell from a failed fetch
// never overwrites a previously completed profile.
func (r *LedgerRepository) UpsertFighter(ctx context.Context, fighter *domain.FighterProfile) error {
	r.appendMu.Lock()
	defer r.appendMu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fighters (
			fighter_id, name, nickname, height_cm, weight_kg, reach_cm,
			stance, date_of_birth, record_wins, record_losses, record_draws,
			partial, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fighter_id) DO UPDATE SET
			name = excluded.name,
			nickname = excluded.nickname,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			reach_cm = excluded.reach_cm,
			stance = excluded.stance,
			date_of_birth = excluded.date_of_birth,
			record_wins = excluded.record_wins,
			record_losses = excluded.record_losses,
			record_draws = excluded.record_draws,
			partial = excluded.partial,
			fetched_at = excluded.fetched_at
		WHERE excluded.partial = 0 OR fighters.partial = 1`,
		fighter.FighterID, fighter.Name, fighter.Nickname,
		fighter.HeightCm, fighter.WeightKg, fighter.ReachCm,
		fighter.Stance, fighter.DateOfBirth,
		fighter.RecordWins, fighter.RecordLosses, fighter.RecordDraws,
		fighter.Partial, fighter.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert fighter %s: %w", fighter.FighterID, err)
	}
	return nil
}

// AllFights reads the whole ledger, oldest event first.
func (r *LedgerRepository) AllFights(ctx context.Context) ([]domain.Fight, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT fight_id, event_name, event_date, location,
			red_fighter_id, blue_fighter_id, red_fighter_name, blue_fighter_name,
			outcome, method, end_round, end_time, scheduled_rounds, referee,
			red_stats, blue_stats, red_rounds, blue_rounds, degraded, created_at
		FROM fights
		ORDER BY event_date, fight_id`)
	if err != nil {
		return nil, fmt.Errorf("load fights: %w", err)
	}
	defer rows.Close()

	var fights []domain.Fight
	for rows.Next() {
		var f domain.Fight
		var outcome string
		var redStats, blueStats, redRounds, blueRounds []byte

		err := rows.Scan(
			&f.FightID, &f.EventName, &f.EventDate, &f.Location,
			&f.RedFighterID, &f.BlueFighterID, &f.RedFighterName, &f.BlueFighterName,
			&outcome, &f.Method, &f.EndRound, &f.EndTime, &f.ScheduledRounds, &f.Referee,
			&redStats, &blueStats, &redRounds, &blueRounds, &f.Degraded, &f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fight: %w", err)
		}

		f.Outcome = domain.Outcome(outcome)
		if err := unmarshalStats(&f, redStats, blueStats, redRounds, blueRounds); err != nil {
			return nil, err
		}
		fights = append(fights, f)
	}
	return fights, rows.Err()
}

func (r *LedgerRepository) FightCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fights`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count fights: %w", err)
	}
	return count, nil
}

func (r *LedgerRepository) GetFighter(ctx context.Context, fighterID string) (*domain.FighterProfile, error) {
	var p domain.FighterProfile
	var height, weight, reach sql.NullFloat64
	var dob sql.NullTime

	err := r.db.QueryRowContext(ctx, `
		SELECT fighter_id, name, nickname, height_cm, weight_kg, reach_cm,
			stance, date_of_birth, record_wins, record_losses, record_draws,
			partial, fetched_at
		FROM fighters WHERE fighter_id = ?`, fighterID).Scan(
		&p.FighterID, &p.Name, &p.Nickname, &height, &weight, &reach,
		&p.Stance, &dob, &p.RecordWins, &p.RecordLosses, &p.RecordDraws,
		&p.Partial, &p.FetchedAt,
	)
	if err != nil {
		return nil, err
	}

	if height.Valid {
		p.HeightCm = &height.Float64
	}
	if weight.Valid {
		p.WeightKg = &weight.Float64
	}
	if reach.Valid {
		p.ReachCm = &reach.Float64
	}
	if dob.Valid {
		t := dob.Time
		p.DateOfBirth = &t
	}
	return &p, nil
}

func marshalStats(fight *domain.Fight) (redStats, blueStats, redRounds, blueRounds []byte, err error) {
	if redStats, err = json.Marshal(fight.Red); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal red stats: %w", err)
	}
	if blueStats, err = json.Marshal(fight.Blue); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal blue stats: %w", err)
	}
	if redRounds, err = json.Marshal(roundsOrEmpty(fight.RedRounds)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal red rounds: %w", err)
	}
	if blueRounds, err = json.Marshal(roundsOrEmpty(fight.BlueRounds)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal blue rounds: %w", err)
	}
	return redStats, blueStats, redRounds, blueRounds, nil
}

func unmarshalStats(f *domain.Fight, redStats, blueStats, redRounds, blueRounds []byte) error {
	if err := json.Unmarshal(redStats, &f.Red); err != nil {
		return fmt.Errorf("unmarshal red stats for %s: %w", f.FightID, err)
	}
	if err := json.Unmarshal(blueStats, &f.Blue); err != nil {
		return fmt.Errorf("unmarshal blue stats for %s: %w", f.FightID, err)
	}
	if err := json.Unmarshal(redRounds, &f.RedRounds); err != nil {
		return fmt.Errorf("unmarshal red rounds for %s: %w", f.FightID, err)
	}
	if err := json.Unmarshal(blueRounds, &f.BlueRounds); err != nil {
		return fmt.Errorf("unmarshal blue rounds for %s: %w", f.FightID, err)
	}
	return nil
}

func roundsOrEmpty(rounds []domain.RoundStats) []domain.RoundStats {
	if rounds == nil {
		return []domain.RoundStats{}
	}
	return rounds
}
