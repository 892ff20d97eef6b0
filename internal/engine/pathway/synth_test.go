package pathway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynthesizer(llm LLM) *Synthesizer {
	return NewSynthesizer(llm, NewBinder())
}

// assertComplete checks the structural contract every finalized plan
// must satisfy regardless of how degraded the synthesis was.
func assertComplete(t *testing.T, p *Plan) {
	t.Helper()
	require.NotNil(t, p)
	assert.NotEmpty(t, p.RequiredSkills, "required_skills")
	assert.NotEmpty(t, p.Gaps, "skill_gaps")
	assert.NotEmpty(t, p.Milestones, "milestones")
	assert.NotEmpty(t, p.Resources, "resources")
	assert.NotEmpty(t, p.Risks, "risk_assessment")

	require.GreaterOrEqual(t, len(p.Phases), 3, "learning_path needs at least 3 phases")
	for i, ph := range p.Phases {
		assert.Equal(t, i+1, ph.Order, "phase order must be contiguous from 1")
		assert.NotEmpty(t, ph.Title)
	}

	for _, g := range p.Gaps {
		assert.GreaterOrEqual(t, g.CurrentScore, 0)
		assert.LessOrEqual(t, g.CurrentScore, 100)
		assert.Equal(t, 100, g.TargetScore)
	}

	assert.NotEmpty(t, p.Summary.Title)
	assert.NotEmpty(t, p.Summary.Overview)
	for _, section := range []string{"required_skills", "skill_gaps", "learning_path", "milestones", "resources", "risk_assessment"} {
		assert.Contains(t, p.Summary.Counts, section)
	}
}

func TestSynthesizeMissingRole(t *testing.T) {
	_, _, err := newTestSynthesizer(stubLLM{}).SynthesizePlan(context.Background(), SynthesisInput{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "target_role", verr.Field)
}

func TestSynthesizeLLMUnavailable(t *testing.T) {
	syn := newTestSynthesizer(stubLLM{err: errors.New("connection refused")})
	plan, deg, err := syn.SynthesizePlan(context.Background(), SynthesisInput{
		TargetRole:     "backend engineer",
		JobDescription: "We need Python, Docker and Kubernetes experience. Docker is essential.",
		CurrentSkills:  []Skill{{Name: "python", Confidence: 0.9}},
		Timeframe:      "1 year",
		HoursPerWeek:   10,
	})
	require.NoError(t, err, "LLM failure must degrade, not fail")
	assert.True(t, deg.LLMUnavailable)
	assert.True(t, deg.Degraded())
	assertComplete(t, plan)
	assert.True(t, plan.Summary.Degraded)
	assert.NotEmpty(t, plan.Summary.Error)
}

func TestSynthesizeUnparsableOutput(t *testing.T) {
	syn := newTestSynthesizer(stubLLM{out: "Here is your plan:\n1) learn things\n2) profit"})
	plan, deg, err := syn.SynthesizePlan(context.Background(), SynthesisInput{
		TargetRole:     "data engineer",
		JobDescription: "Requires SQL and Python. SQL appears daily.",
		Timeframe:      "6 months",
		HoursPerWeek:   5,
	})
	require.NoError(t, err)
	assert.True(t, deg.ParseFailed)
	assertComplete(t, plan)
}

// routedLLM answers each call by prompt content, so one test can serve
// the job-description, required-skills and plan calls differently.
type routedLLM struct {
	plan string
}

func (r routedLLM) Complete(_ context.Context, _, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "required_skills") && strings.Contains(prompt, "learning_path"):
		return r.plan, nil
	case strings.Contains(prompt, "required_skills"):
		return `{"required_skills":[{"skill":"docker","importance":8,"frequency":2},{"skill":"python","importance":7,"frequency":1}]}`, nil
	default:
		return "generic description requiring docker and python", nil
	}
}

func TestSynthesizeHappyPath(t *testing.T) {
	planJSON := `{
		"required_skills":[{"skill":"docker","importance":8,"frequency":2}],
		"skill_gaps":[{"skill":"docker","current_score":0,"target_score":100,"priority":"high"}],
		"learning_path":[
			{"order":1,"title":"Foundations","duration_estimate":"1 month","skills_to_develop":["docker"]},
			{"order":2,"title":"Projects","duration_estimate":"2 months","skills_to_develop":["docker"]},
			{"order":3,"title":"Production practice","duration_estimate":"2 months","skills_to_develop":["docker","python"]}
		],
		"milestones":[{"title":"Ship a containerized service","target_date":"2099-06-01","description":"deployed and documented"}],
		"resources":[{"title":"Docker deep dive","url":"https://example.com/docker","provider":"Example","resource_type":"course","price_type":"paid","skill":"docker"}],
		"risk_assessment":[{"risk":"time pressure","severity":"medium","mitigation":"weekly schedule"}]
	}`
	syn := newTestSynthesizer(routedLLM{plan: planJSON})
	plan, deg, err := syn.SynthesizePlan(context.Background(), SynthesisInput{
		TargetRole:    "platform engineer",
		CurrentSkills: []Skill{{Name: "python", Confidence: 0.9}},
		Timeframe:     "1 year",
		HoursPerWeek:  10,
	})
	require.NoError(t, err)
	assertComplete(t, plan)
	assert.False(t, deg.LLMUnavailable)
	assert.False(t, deg.ParseFailed)

	// Computed gaps win over echoed ones.
	require.NotEmpty(t, plan.Gaps)
	assert.Equal(t, "docker", plan.Gaps[0].Skill)
	assert.Equal(t, "2099-06-01", plan.Milestones[0].TargetDate)
}

func TestSynthesizePhasePadding(t *testing.T) {
	// A one-phase path must be padded to three with contiguous orders.
	planJSON := `{
		"required_skills":[{"skill":"docker","importance":8,"frequency":2}],
		"skill_gaps":[{"skill":"docker","current_score":0,"target_score":100,"priority":"high"}],
		"learning_path":[{"order":7,"title":"Everything at once","duration_estimate":"6 months","skills_to_develop":["docker"]}],
		"milestones":[{"title":"done","target_date":"2099-01-01"}],
		"resources":[{"title":"r","url":"https://example.com","resource_type":"course","price_type":"free","skill":"docker"}],
		"risk_assessment":[{"risk":"burnout"}]
	}`
	syn := newTestSynthesizer(routedLLM{plan: planJSON})
	plan, deg, err := syn.SynthesizePlan(context.Background(), SynthesisInput{
		TargetRole:   "sre",
		Timeframe:    "1 year",
		HoursPerWeek: 10,
	})
	require.NoError(t, err)
	assertComplete(t, plan)
	assert.Contains(t, deg.Repaired, "learning_path")
	assert.Equal(t, 1, plan.Phases[0].Order)
}

// promptRecorder keeps every prompt it forwards so tests can inspect
// what the synthesis actually asked for.
type promptRecorder struct {
	inner   LLM
	prompts []string
}

func (p *promptRecorder) Complete(ctx context.Context, system, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.inner.Complete(ctx, system, prompt)
}

func TestSynthesizeRecallsPastAssessments(t *testing.T) {
	var searched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/memory/search", r.URL.Path)
		searched = true
		_, _ = io.WriteString(w, `{"results":[{"content":"Assessment for role backend engineer: 4 gaps, 3 phases, estimated 6 months","score":0.92,"info":{"plan_id":"p-1"}}]}`)
	}))
	defer srv.Close()
	SetMemory(NewMemoryClient(srv.URL, ""))
	t.Cleanup(func() { SetMemory(nil) })

	rec := &promptRecorder{inner: routedLLM{}}
	plan, _, err := newTestSynthesizer(rec).SynthesizePlan(context.Background(), SynthesisInput{
		UserID:       "u-1",
		TargetRole:   "backend engineer",
		Timeframe:    "1 year",
		HoursPerWeek: 10,
	})
	require.NoError(t, err)
	assertComplete(t, plan)
	assert.True(t, searched, "memory service should be queried")

	var planPrompt string
	for _, p := range rec.prompts {
		if strings.Contains(p, "learning_path") {
			planPrompt = p
		}
	}
	require.NotEmpty(t, planPrompt, "plan prompt not issued")
	assert.Contains(t, planPrompt, "Prior assessments for this user")
	assert.Contains(t, planPrompt, "Assessment for role backend engineer")
}

func TestSynthesizeMemoryFailureIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	SetMemory(NewMemoryClient(srv.URL, ""))
	t.Cleanup(func() { SetMemory(nil) })

	plan, _, err := newTestSynthesizer(routedLLM{}).SynthesizePlan(context.Background(), SynthesisInput{
		TargetRole:   "backend engineer",
		Timeframe:    "1 year",
		HoursPerWeek: 10,
	})
	require.NoError(t, err, "memory failure must not fail the synthesis")
	assertComplete(t, plan)
}

// shortAwareLLM routes like routedLLM but also offers the capped
// short-completion path.
type shortAwareLLM struct {
	routedLLM
	shortPrompts []string
}

func (s *shortAwareLLM) CompleteShort(_ context.Context, prompt string, _ int) (string, error) {
	s.shortPrompts = append(s.shortPrompts, prompt)
	return "generic description requiring docker and python", nil
}

func TestSynthesizeGenericJDUsesShortCompletion(t *testing.T) {
	llm := &shortAwareLLM{}
	plan, _, err := newTestSynthesizer(llm).SynthesizePlan(context.Background(), SynthesisInput{
		TargetRole:   "platform engineer",
		Timeframe:    "1 year",
		HoursPerWeek: 10,
	})
	require.NoError(t, err)
	assertComplete(t, plan)
	require.Len(t, llm.shortPrompts, 1, "generic job description should use the capped completion")
	assert.Contains(t, llm.shortPrompts[0], "platform engineer")
}
