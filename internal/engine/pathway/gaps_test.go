package pathway

import "testing"

func TestTimelineUrgency(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"6 months", 0.9},
		{"6m", 0.9},
		{"1 year", 0.7},
		{"2 years", 0.5},
		{"5 years", 0.3},
		{"whenever", 0.5},
		{"", 0.5},
	}
	for _, tt := range tests {
		if got := TimelineUrgency(tt.in); got != tt.want {
			t.Errorf("TimelineUrgency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCommitmentFactor(t *testing.T) {
	tests := []struct {
		hours float64
		want  float64
	}{
		{2, 0.3},
		{5, 0.5},
		{10, 0.8},
		{20, 1.0},
		{0, 0.5},
		{-1, 0.5},
	}
	for _, tt := range tests {
		if got := CommitmentFactor(tt.hours); got != tt.want {
			t.Errorf("CommitmentFactor(%v) = %v, want %v", tt.hours, got, tt.want)
		}
	}
}

func TestExperienceFactor(t *testing.T) {
	tests := []struct {
		years float64
		want  float64
	}{
		{0.5, 0.2},
		{2, 0.4},
		{4, 0.6},
		{7, 0.8},
		{15, 1.0},
	}
	for _, tt := range tests {
		if got := ExperienceFactor(tt.years); got != tt.want {
			t.Errorf("ExperienceFactor(%v) = %v, want %v", tt.years, got, tt.want)
		}
	}
}

// Worked example: a short stated timeframe escalates every gap to high
// even when the skill appears only once in the job description.
func TestComputeGapsUrgencyOverride(t *testing.T) {
	current := []Skill{
		{Name: "python", Confidence: 0.9},
		{Name: "git", Confidence: 0.8},
	}
	required := []RequiredSkill{
		{Skill: "python", Frequency: 1},
		{Skill: "docker", Frequency: 2},
		{Skill: "leadership", Frequency: 1},
	}
	rep := ComputeGaps(current, required, GapContext{Timeframe: "6m", HoursPerWeek: 10})

	if len(rep.Gaps) != 2 {
		t.Fatalf("got %d gaps, want 2 (python already held): %v", len(rep.Gaps), rep.Gaps)
	}
	for _, g := range rep.Gaps {
		if g.Skill == "python" {
			t.Error("python should not be a gap")
		}
		if g.Priority != PriorityHigh {
			t.Errorf("gap %s priority = %q, want high under 6m urgency", g.Skill, g.Priority)
		}
		if g.TargetScore != 100 {
			t.Errorf("gap %s target = %d, want 100", g.Skill, g.TargetScore)
		}
	}
	if len(rep.AlreadyMet) != 1 || rep.AlreadyMet[0].Skill != "python" {
		t.Errorf("already met = %v, want python", rep.AlreadyMet)
	}
}

func TestComputeGapsFrequencyAndMedium(t *testing.T) {
	required := []RequiredSkill{
		{Skill: "docker", Frequency: 3},
		{Skill: "terraform", Frequency: 1},
	}
	rep := ComputeGaps(nil, required, GapContext{Timeframe: "2 years", HoursPerWeek: 10})

	byName := make(map[string]GapPriority)
	for _, g := range rep.Gaps {
		byName[g.Skill] = g.Priority
		if g.CurrentScore != 0 {
			t.Errorf("absent skill %s current = %d, want 0", g.Skill, g.CurrentScore)
		}
	}
	if byName["docker"] != PriorityHigh {
		t.Errorf("docker priority = %q, want high (frequency > 1)", byName["docker"])
	}
	if byName["terraform"] != PriorityMedium {
		t.Errorf("terraform priority = %q, want medium", byName["terraform"])
	}
}

func TestEstimateBounds(t *testing.T) {
	// No gaps: estimate floors at 3.
	rep := ComputeGaps(nil, nil, GapContext{HoursPerWeek: 10})
	if rep.EstimatedMonths != 3 {
		t.Errorf("empty estimate = %d, want 3", rep.EstimatedMonths)
	}

	// Many high gaps at low commitment: estimate caps at 36.
	var required []RequiredSkill
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		required = append(required, RequiredSkill{Skill: s, Frequency: 5})
	}
	rep = ComputeGaps(nil, required, GapContext{HoursPerWeek: 2})
	if rep.EstimatedMonths != 36 {
		t.Errorf("estimate = %d, want cap 36", rep.EstimatedMonths)
	}
}

func TestAdvisoryOnShortTimeframe(t *testing.T) {
	var required []RequiredSkill
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		required = append(required, RequiredSkill{Skill: s, Frequency: 2})
	}
	rep := ComputeGaps(nil, required, GapContext{Timeframe: "6 months", HoursPerWeek: 2})
	if rep.EstimatedMonths <= 6 {
		t.Fatalf("estimate = %d, expected above requested 6", rep.EstimatedMonths)
	}
	if rep.Advisory == "" {
		t.Error("expected advisory when requested timeframe is below estimate")
	}

	rep = ComputeGaps(nil, required[:1], GapContext{Timeframe: "5 years", HoursPerWeek: 20})
	if rep.Advisory != "" {
		t.Errorf("unexpected advisory: %q", rep.Advisory)
	}
}

func TestScoreDimensions(t *testing.T) {
	dims := ScoreDimensions([]Skill{
		{Name: "python", Confidence: 0.9},
		{Name: "leadership", Confidence: 0.6},
	}, 4)

	for _, want := range []string{"technical", "communication", "leadership", "problem_solving", "creativity"} {
		v, ok := dims[want]
		if !ok {
			t.Fatalf("missing dimension %q: %v", want, dims)
		}
		if v < 0 || v > 100 {
			t.Errorf("dimension %s = %v, out of [0,100]", want, v)
		}
	}
}
