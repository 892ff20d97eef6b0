package pathway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// PlanStore persists plans and their milestones. Implementations must
// make the round trip lossless: phases, gaps and milestones load back
// with the same counts and field values they were saved with.
type PlanStore interface {
	SavePlan(ctx context.Context, p *Plan) error
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context, userID string) ([]Plan, error)
	DeletePlan(ctx context.Context, id string) error
	SetPlanStatus(ctx context.Context, id string, status PlanStatus) error
	GetMilestone(ctx context.Context, id string) (*Milestone, error)
	UpdateMilestone(ctx context.Context, m *Milestone) error
	MilestoneCounts(ctx context.Context, planID string) (map[MilestoneStatus]int, error)
}

var (
	storeMu sync.RWMutex
	store   PlanStore
)

// SetStore installs the process-wide plan store.
func SetStore(s PlanStore) {
	storeMu.Lock()
	store = s
	storeMu.Unlock()
}

// GetStore returns the installed plan store, or an error before init.
func GetStore() (PlanStore, error) {
	storeMu.RLock()
	defer storeMu.RUnlock()
	if store == nil {
		return nil, errors.New("plan store not initialized")
	}
	return store, nil
}

// SQLiteStore is the default on-disk store.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the plan database under dir.
// Empty dir defaults to ~/.go_pathway.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".go_pathway")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "plans.db"))
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if err := initPlanSchema(db); err != nil {
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initPlanSchema(db *sql.DB) error {
	stmts := []string{
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
			required_skills  TEXT NOT NULL,
			skill_gaps       TEXT NOT NULL,
			learning_path    TEXT NOT NULL,
			resources        TEXT NOT NULL,
			risk_assessment  TEXT NOT NULL,
			summary          TEXT NOT NULL
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
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// SavePlan writes the plan and its milestones in one transaction.
// Assigns ids to the plan and any milestone missing one.
func (s *SQLiteStore) SavePlan(ctx context.Context, p *Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PlanActive
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	required, err := marshalField("required_skills", p.RequiredSkills)
	if err != nil {
		return err
	}
	gaps, err := marshalField("skill_gaps", p.Gaps)
	if err != nil {
		return err
	}
	phases, err := marshalField("learning_path", p.Phases)
	if err != nil {
		return err
	}
	resources, err := marshalField("resources", p.Resources)
	if err != nil {
		return err
	}
	risks, err := marshalField("risk_assessment", p.Risks)
	if err != nil {
		return err
	}
	summary, err := marshalField("summary", p.Summary)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (id, user_id, target_role, experience_level, timeframe,
			status, created_at, estimated_months, advisory,
			required_skills, skill_gaps, learning_path, resources, risk_assessment, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
		_, err = tx.ExecContext(ctx,
			`INSERT INTO milestones (id, plan_id, title, target_date, status, notes, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.PlanID, m.Title, m.TargetDate, string(m.Status), m.Notes, m.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("store: insert milestone: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func marshalField(name string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("store: marshal %s: %w", name, err)
	}
	return string(b), nil
}

const planColumns = `id, user_id, target_role, experience_level, timeframe,
	status, created_at, estimated_months, advisory,
	required_skills, skill_gaps, learning_path, resources, risk_assessment, summary`

func scanPlan(scan func(dest ...any) error) (*Plan, error) {
	var p Plan
	var status, required, gaps, phases, resources, risks, summary string
	err := scan(&p.ID, &p.UserID, &p.TargetRole, &p.ExperienceLevel, &p.Timeframe,
		&status, &p.CreatedAt, &p.EstimatedMonths, &p.Advisory,
		&required, &gaps, &phases, &resources, &risks, &summary)
	if err != nil {
		return nil, err
	}
	p.Status = PlanStatus(status)
	for _, f := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"required_skills", required, &p.RequiredSkills},
		{"skill_gaps", gaps, &p.Gaps},
		{"learning_path", phases, &p.Phases},
		{"resources", resources, &p.Resources},
		{"risk_assessment", risks, &p.Risks},
		{"summary", summary, &p.Summary},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("store: unmarshal %s: %w", f.name, err)
		}
	}
	return &p, nil
}

// GetPlan loads a plan and its milestones. ErrNotFound when absent.
func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*Plan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get plan: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plan_id, title, target_date, status, notes, completed_at
		 FROM milestones WHERE plan_id = ? ORDER BY target_date, id`, id)
	if err != nil {
		return nil, fmt.Errorf("store: list milestones: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMilestone(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scan milestone: %w", err)
		}
		p.Milestones = append(p.Milestones, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: milestones rows: %w", err)
	}
	return p, nil
}

func scanMilestone(scan func(dest ...any) error) (*Milestone, error) {
	var m Milestone
	var status string
	if err := scan(&m.ID, &m.PlanID, &m.Title, &m.TargetDate, &status, &m.Notes, &m.CompletedAt); err != nil {
		return nil, err
	}
	m.Status = MilestoneStatus(status)
	return &m, nil
}

// ListPlans returns plans newest first, optionally filtered by user.
// Milestones are not loaded; use GetPlan for the full aggregate.
func (s *SQLiteStore) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	var rows *sql.Rows
	var err error
	if userID != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+planColumns+` FROM plans WHERE user_id = ? ORDER BY created_at DESC`, userID)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+planColumns+` FROM plans ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list plans: %w", err)
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scan plan: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: plans rows: %w", err)
	}
	return out, nil
}

// DeletePlan removes a plan; milestones cascade.
func (s *SQLiteStore) DeletePlan(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPlanStatus updates the plan-level lifecycle status.
func (s *SQLiteStore) SetPlanStatus(ctx context.Context, id string, status PlanStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE plans SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("store: set plan status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMilestone loads one milestone by id. ErrNotFound when absent.
func (s *SQLiteStore) GetMilestone(ctx context.Context, id string) (*Milestone, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, plan_id, title, target_date, status, notes, completed_at
		 FROM milestones WHERE id = ?`, id)
	m, err := scanMilestone(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get milestone: %w", err)
	}
	return m, nil
}

// UpdateMilestone persists status, notes and completed_at together so
// the completion stamp can never drift from the status.
func (s *SQLiteStore) UpdateMilestone(ctx context.Context, m *Milestone) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE milestones SET status = ?, notes = ?, completed_at = ? WHERE id = ?`,
		string(m.Status), m.Notes, m.CompletedAt, m.ID)
	if err != nil {
		return fmt.Errorf("store: update milestone: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MilestoneCounts returns per-status milestone counts for a plan.
func (s *SQLiteStore) MilestoneCounts(ctx context.Context, planID string) (map[MilestoneStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM milestones WHERE plan_id = ? GROUP BY status`, planID)
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
