package pathway

import (
	"sort"
	"testing"
)

func TestNormalizeSkills(t *testing.T) {
	merged := NormalizeSkills(map[SkillSource][]Skill{
		SourceResume: {
			{Name: "python", Confidence: 0.7},
			{Name: "git", Confidence: 0.8},
		},
		SourceManual: {
			{Name: "python", Confidence: 0.9},
			{Name: "docker", Confidence: 1.0},
		},
	})

	if !sort.SliceIsSorted(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name }) {
		t.Errorf("result not sorted by name: %v", merged)
	}
	byName := make(map[string]Skill)
	for _, s := range merged {
		byName[s.Name] = s
	}
	if len(byName) != 3 {
		t.Fatalf("got %d skills, want 3: %v", len(byName), merged)
	}

	py := byName["python"]
	if py.Confidence != 0.9 {
		t.Errorf("python confidence = %f, want max 0.9", py.Confidence)
	}
	if len(py.Sources) != 2 {
		t.Errorf("python sources = %v, want both", py.Sources)
	}
	if byName["docker"].Confidence != 1.0 {
		t.Errorf("docker confidence = %f", byName["docker"].Confidence)
	}
}

func TestNormalizeSkillsEmpty(t *testing.T) {
	if got := NormalizeSkills(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
