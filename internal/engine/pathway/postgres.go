package pathway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the shared-database alternative to SQLite, selected
// when DATABASE_URL is set.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id               TEXT PRIMARY KEY,
		user_id          TEXT,
		target_role      TEXT NOT NULL,
		experience_level TEXT,
		timeframe        TEXT,
		status           TEXT NOT NULL DEFAULT 'active',
		created_at       TEXT NOT NULL,
		estimated_months INTEGER,
		advisory         TEXT,
		required_skills  JSONB NOT NULL,
		skill_gaps       JSONB NOT NULL,
		learning_path    JSONB NOT NULL,
		resources        JSONB NOT NULL,
		risk_assessment  JSONB NOT NULL,
		summary          JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id)`,
	`CREATE TABLE IF NOT EXISTS milestones (
		id           TEXT PRIMARY KEY,
		plan_id      TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		target_date  TEXT,
		status       TEXT NOT NULL DEFAULT 'not_started',
		notes        TEXT,
		completed_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_plan ON milestones(plan_id)`,
}

// ConnectPostgres creates a pgx pool and ensures the schema exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range pgSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() { s.pool.Close() }

// SavePlan writes the plan and its milestones in one transaction.
func (s *PostgresStore) SavePlan(ctx context.Context, p *Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PlanActive
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	required, err := json.Marshal(p.RequiredSkills)
	if err != nil {
		return fmt.Errorf("store: marshal required_skills: %w", err)
	}
	gaps, err := json.Marshal(p.Gaps)
	if err != nil {
		return fmt.Errorf("store: marshal skill_gaps: %w", err)
	}
	phases, err := json.Marshal(p.Phases)
	if err != nil {
		return fmt.Errorf("store: marshal learning_path: %w", err)
	}
	resources, err := json.Marshal(p.Resources)
	if err != nil {
		return fmt.Errorf("store: marshal resources: %w", err)
	}
	risks, err := json.Marshal(p.Risks)
	if err != nil {
		return fmt.Errorf("store: marshal risk_assessment: %w", err)
	}
	summary, err := json.Marshal(p.Summary)
	if err != nil {
		return fmt.Errorf("store: marshal summary: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO plans (id, user_id, target_role, experience_level, timeframe,
			status, created_at, estimated_months, advisory,
			required_skills, skill_gaps, learning_path, resources, risk_assessment, summary)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.UserID, p.TargetRole, p.ExperienceLevel, p.Timeframe,
		string(p.Status), p.CreatedAt, p.EstimatedMonths, p.Advisory,
		required, gaps, phases, resources, risks, summary,
	)
	if err != nil {
		return fmt.Errorf("store: insert plan: %w", err)
	}

	for i := range p.Milestones {
		m := &p.Milestones[i]
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		m.PlanID = p.ID
		if m.Status == "" {
			m.Status = StatusNotStarted
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO milestones (id, plan_id, title, target_date, status, notes, completed_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			m.ID, m.PlanID, m.Title, m.TargetDate, string(m.Status), m.Notes, m.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("store: insert milestone: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

const pgPlanColumns = `id, user_id, target_role, experience_level, timeframe,
	status, created_at, estimated_months, advisory,
	required_skills, skill_gaps, learning_path, resources, risk_assessment, summary`

func scanPGPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	var status string
	var required, gaps, phases, resources, risks, summary []byte
	err := row.Scan(&p.ID, &p.UserID, &p.TargetRole, &p.ExperienceLevel, &p.Timeframe,
		&status, &p.CreatedAt, &p.EstimatedMonths, &p.Advisory,
		&required, &gaps, &phases, &resources, &risks, &summary)
	if err != nil {
		return nil, err
	}
	p.Status = PlanStatus(status)
	for _, f := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"required_skills", required, &p.RequiredSkills},
		{"skill_gaps", gaps, &p.Gaps},
		{"learning_path", phases, &p.Phases},
		{"resources", resources, &p.Resources},
		{"risk_assessment", risks, &p.Risks},
		{"summary", summary, &p.Summary},
	} {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("store: unmarshal %s: %w", f.name, err)
		}
	}
	return &p, nil
}

// GetPlan loads a plan and its milestones. ErrNotFound when absent.
func (s *PostgresStore) GetPlan(ctx context.Context, id string) (*Plan, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgPlanColumns+` FROM plans WHERE id = $1`, id)
	p, err := scanPGPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get plan: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, plan_id, title, target_date, status, notes, completed_at
		 FROM milestones WHERE plan_id = $1 ORDER BY target_date, id`, id)
	if err != nil {
		return nil, fmt.Errorf("store: list milestones: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m Milestone
		var status string
		if err := rows.Scan(&m.ID, &m.PlanID, &m.Title, &m.TargetDate, &status, &m.Notes, &m.CompletedAt); err != nil {
			return nil, fmt.Errorf("store: scan milestone: %w", err)
		}
		m.Status = MilestoneStatus(status)
		p.Milestones = append(p.Milestones, m)
	}
	return p, rows.Err()
}

// ListPlans returns plans newest first, optionally filtered by user.
func (s *PostgresStore) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	var rows pgx.Rows
	var err error
	if userID != "" {
		rows, err = s.pool.Query(ctx,
			`SELECT `+pgPlanColumns+` FROM plans WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT `+pgPlanColumns+` FROM plans ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list plans: %w", err)
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		p, err := scanPGPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan plan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// DeletePlan removes a plan; milestones cascade.
func (s *PostgresStore) DeletePlan(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPlanStatus updates the plan-level lifecycle status.
func (s *PostgresStore) SetPlanStatus(ctx context.Context, id string, status PlanStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE plans SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("store: set plan status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMilestone loads one milestone by id. ErrNotFound when absent.
func (s *PostgresStore) GetMilestone(ctx context.Context, id string) (*Milestone, error) {
	var m Milestone
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT id, plan_id, title, target_date, status, notes, completed_at
		 FROM milestones WHERE id = $1`, id).
		Scan(&m.ID, &m.PlanID, &m.Title, &m.TargetDate, &status, &m.Notes, &m.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get milestone: %w", err)
	}
	m.Status = MilestoneStatus(status)
	return &m, nil
}

// UpdateMilestone persists status, notes and completed_at together.
func (s *PostgresStore) UpdateMilestone(ctx context.Context, m *Milestone) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE milestones SET status = $1, notes = $2, completed_at = $3 WHERE id = $4`,
		string(m.Status), m.Notes, m.CompletedAt, m.ID)
	if err != nil {
		return fmt.Errorf("store: update milestone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MilestoneCounts returns per-status milestone counts for a plan.
func (s *PostgresStore) MilestoneCounts(ctx context.Context, planID string) (map[MilestoneStatus]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM milestones WHERE plan_id = $1 GROUP BY status`, planID)
	if err != nil {
		return nil, fmt.Errorf("store: milestone counts: %w", err)
	}
	defer rows.Close()

	out := make(map[MilestoneStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("store: scan count: %w", err)
		}
		out[MilestoneStatus(status)] = n
	}
	return out, rows.Err()
}
