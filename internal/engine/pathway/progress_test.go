package pathway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMilestoneStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPlan()
	require.NoError(t, s.SavePlan(ctx, p))
	id := p.Milestones[0].ID

	m, err := UpdateMilestoneStatus(ctx, s, id, StatusCompleted, "shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, m.Status)
	assert.NotEmpty(t, m.CompletedAt, "completing must stamp completed_at")
	assert.Equal(t, "shipped", m.Notes)

	// Leaving completed clears the stamp.
	m, err = UpdateMilestoneStatus(ctx, s, id, StatusInProgress, "")
	require.NoError(t, err)
	assert.Empty(t, m.CompletedAt)
	assert.Equal(t, "shipped", m.Notes, "empty notes must not overwrite")

	_, err = UpdateMilestoneStatus(ctx, s, id, "bogus", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = UpdateMilestoneStatus(ctx, s, "missing", StatusCompleted, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverallProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPlan()
	p.Milestones = []Milestone{
		{Title: "a", TargetDate: "2099-01-01"},
		{Title: "b", TargetDate: "2099-02-01"},
		{Title: "c", TargetDate: "2099-03-01"},
		{Title: "d", TargetDate: "2099-04-01"},
	}
	require.NoError(t, s.SavePlan(ctx, p))

	_, err := UpdateMilestoneStatus(ctx, s, p.Milestones[0].ID, StatusCompleted, "")
	require.NoError(t, err)

	rep, err := OverallProgress(ctx, s, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, rep.Percent)
	assert.Equal(t, 4, rep.Total)

	// No milestones: zero percent, no division error.
	empty := testPlan()
	empty.Milestones = nil
	require.NoError(t, s.SavePlan(ctx, empty))
	rep, err = OverallProgress(ctx, s, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rep.Percent)
	assert.Equal(t, 0, rep.Total)

	_, err = OverallProgress(ctx, s, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
