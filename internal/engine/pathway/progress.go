package pathway

import (
	"context"
	"time"
)

// UpdateMilestoneStatus transitions a milestone and stamps or clears
// completed_at in the same write: set on entering completed, cleared on
// leaving it. Notes replace the existing notes only when non-empty.
func UpdateMilestoneStatus(ctx context.Context, store PlanStore, id string, status MilestoneStatus, notes string) (*Milestone, error) {
	if !ValidMilestoneStatus(string(status)) {
		return nil, Validationf("status", "must be one of not_started, in_progress, completed")
	}
	m, err := store.GetMilestone(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case status == StatusCompleted && m.Status != StatusCompleted:
		m.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	case status != StatusCompleted:
		m.CompletedAt = ""
	}
	m.Status = status
	if notes != "" {
		m.Notes = notes
	}

	if err := store.UpdateMilestone(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ProgressReport aggregates milestone completion for one plan.
type ProgressReport struct {
	PlanID     string                  `json:"plan_id"`
	Percent    float64                 `json:"percent"`
	Total      int                     `json:"total"`
	ByStatus   map[MilestoneStatus]int `json:"by_status"`
	TargetRole string                  `json:"target_role,omitempty"`
}

// OverallProgress computes completion as 100*completed/total, 0 for a
// plan with no milestones.
func OverallProgress(ctx context.Context, store PlanStore, planID string) (*ProgressReport, error) {
	p, err := store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	counts, err := store.MilestoneCounts(ctx, planID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	rep := &ProgressReport{
		PlanID:     planID,
		Total:      total,
		ByStatus:   counts,
		TargetRole: p.TargetRole,
	}
	if total > 0 {
		rep.Percent = 100 * float64(counts[StatusCompleted]) / float64(total)
	}
	return rep, nil
}
