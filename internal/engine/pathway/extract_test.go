package pathway

import (
	"context"
	"errors"
	"testing"
)

// stubLLM returns canned output or a fixed error.
type stubLLM struct {
	out string
	err error
}

func (s stubLLM) Complete(_ context.Context, _, _ string) (string, error) {
	return s.out, s.err
}

func TestExtractSkillsLocal(t *testing.T) {
	text := "Senior engineer with Python, Docker and Kubernetes. Strong leadership and communication. Built CI/CD pipelines with PostgreSQL."
	skills := ExtractSkillsLocal(text, SourceResume)
	if len(skills) == 0 {
		t.Fatal("expected skills from local extraction")
	}

	got := make(map[string]bool)
	for _, s := range skills {
		got[s.Name] = true
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Errorf("confidence out of range for %s: %f", s.Name, s.Confidence)
		}
		if s.Source != SourceResume {
			t.Errorf("source = %q, want resume", s.Source)
		}
	}
	for _, want := range []string{"python", "docker", "kubernetes", "leadership", "communication", "postgresql"} {
		if !got[want] {
			t.Errorf("missing skill %q in %v", want, skills)
		}
	}
}

func TestExtractSkillsLocalWordBoundaries(t *testing.T) {
	// "go" must not match inside "google" or "ago".
	skills := ExtractSkillsLocal("I worked at google two years ago", SourceResume)
	for _, s := range skills {
		if s.Name == "go" {
			t.Errorf("matched 'go' inside a longer word: %v", skills)
		}
	}
}

func TestExtractSkillsLLM(t *testing.T) {
	llm := stubLLM{out: "```json\n{\"skills\":[" +
		"{\"name\":\"Python\",\"category\":\"technical\",\"confidence\":0.9}," +
		"{\"name\":\"vague thing\",\"category\":\"domain\",\"confidence\":0.4}," +
		"{\"name\":\"python\",\"category\":\"technical\",\"confidence\":0.8}]}\n```"}
	skills, err := NewExtractor(llm).ExtractSkills(context.Background(), "some resume text", SourceResume)
	if err != nil {
		t.Fatalf("ExtractSkills: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("got %d skills, want 1 (low-confidence filtered, duplicate dropped): %v", len(skills), skills)
	}
	if skills[0].Name != "python" || skills[0].Confidence != 0.9 {
		t.Errorf("got %+v, want python at 0.9", skills[0])
	}
}

func TestExtractSkillsFallsBack(t *testing.T) {
	tests := []struct {
		name string
		llm  stubLLM
	}{
		{"unavailable", stubLLM{err: errors.New("timeout")}},
		{"malformed", stubLLM{out: "sorry, here is prose instead of JSON"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skills, err := NewExtractor(tt.llm).ExtractSkills(context.Background(), "Python and docker experience", SourceResume)
			if err != nil {
				t.Fatalf("fallback should not error: %v", err)
			}
			if len(skills) == 0 {
				t.Fatal("fallback produced no skills")
			}
		})
	}
}

func TestExtractSkillsBlankInput(t *testing.T) {
	_, err := NewExtractor(stubLLM{}).ExtractSkills(context.Background(), "   ", SourceResume)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestParseManualSkills(t *testing.T) {
	skills := ParseManualSkills("Python,  docker , ,PYTHON, leadership")
	if len(skills) != 3 {
		t.Fatalf("got %d skills, want 3: %v", len(skills), skills)
	}
	for _, s := range skills {
		if s.Confidence != 1.0 {
			t.Errorf("manual skill %s confidence = %f, want 1.0", s.Name, s.Confidence)
		}
		if s.Source != SourceManual {
			t.Errorf("manual skill %s source = %q", s.Name, s.Source)
		}
	}
}
