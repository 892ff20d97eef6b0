package pathway

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/anatolykoptev/go_pathway/internal/engine"
)

// minSkillConfidence is the retention threshold for extracted skills.
// Policy constant, applied consistently after every extraction.
const minSkillConfidence = 0.6

// Extractor turns raw document text into a weighted, deduplicated,
// lower-cased skill list. LLM-backed with a deterministic local fallback.
type Extractor struct {
	llm LLM
}

// NewExtractor creates an Extractor using the given generative capability.
func NewExtractor(llm LLM) *Extractor {
	return &Extractor{llm: llm}
}

// llmSkillDoc is the JSON structure expected from the LLM for extraction.
type llmSkillDoc struct {
	Skills []struct {
		Name       string  `json:"name"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	} `json:"skills"`
}

// ExtractSkills extracts skills from text, tagging them with source.
// Asks the LLM for a categorized breakdown; on unavailable or malformed
// output it falls back to the local heuristic. Never fails on upstream
// errors — only on blank input.
func (e *Extractor) ExtractSkills(ctx context.Context, text string, source SkillSource) ([]Skill, error) {
	if strings.TrimSpace(text) == "" {
		return nil, Validationf("text", "is required")
	}

	prompt := fmt.Sprintf(extractSkillsPrompt, engine.TruncateRunes(text, 6000, ""))
	doc, outcome := completeJSON[llmSkillDoc](ctx, e.llm, "", prompt)
	switch outcome {
	case unavailable:
		slog.Warn("skill extraction: LLM unavailable, using local fallback", slog.String("source", string(source)))
		return ExtractSkillsLocal(text, source), nil
	case parseFailed:
		slog.Warn("skill extraction: malformed LLM output, using local fallback", slog.String("source", string(source)))
		return ExtractSkillsLocal(text, source), nil
	}

	seen := make(map[string]bool)
	var out []Skill
	for _, s := range doc.Skills {
		name := engine.CanonicalSkillKey(s.Name)
		if name == "" || seen[name] {
			continue
		}
		conf := s.Confidence
		if conf < 0 || conf > 1 {
			continue // out-of-range confidence is untrusted, drop the claim
		}
		if conf < minSkillConfidence {
			continue
		}
		seen[name] = true
		out = append(out, Skill{Name: name, Confidence: conf, Source: source})
	}
	if len(out) == 0 {
		return ExtractSkillsLocal(text, source), nil
	}
	return out, nil
}

// knownSkills is the deterministic vocabulary for the local fallback:
// common technical, tooling, and soft skills matched as whole tokens.
var knownSkills = []string{
	"python", "javascript", "typescript", "react", "vue", "angular", "node.js",
	"java", "c#", "c++", "go", "ruby", "php", "swift", "kotlin", "rust", "html", "css",
	"sql", "nosql", "mongodb", "postgresql", "mysql", "redis", "aws", "azure", "gcp",
	"docker", "kubernetes", "terraform", "git", "ci/cd", "agile", "scrum", "devops",
	"machine learning", "data science", "blockchain", "ux", "ui",
	"testing", "qa", "linux", "ios", "android", "grpc", "kafka",
	"rest api", "graphql", "microservices", "security", "networking",
	"system design", "algorithms", "data analysis",
	"leadership", "communication", "teamwork", "problem solving", "creativity",
	"project management", "product management", "mentoring",
}

// fallbackStopWords filters noise tokens from the short-phrase scan.
var fallbackStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"years": true, "experience": true, "strong": true, "skills": true,
	"using": true, "used": true, "knowledge": true, "ability": true,
}

// ExtractSkillsLocal is the deterministic fallback extractor: known-skill
// vocabulary matching plus a short-token scan. Lower-cases, deduplicates,
// never fails; may return an empty slice.
func ExtractSkillsLocal(text string, source SkillSource) []Skill {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var out []Skill

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, Skill{Name: name, Confidence: minSkillConfidence, Source: source})
	}

	for _, skill := range knownSkills {
		if containsToken(lower, skill) {
			add(skill)
		}
	}

	// Short-phrase scan: single tokens that look like product or tech names
	// (keep + # . as word chars so "c++", "c#", "node.js" survive).
	for _, tok := range tokenize(lower) {
		if len([]rune(tok)) < 3 || fallbackStopWords[tok] {
			continue
		}
		if looksLikeTech(tok) {
			add(tok)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// containsToken reports whether s contains needle at word boundaries.
func containsToken(s, needle string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], needle)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordChar(rune(s[i-1]))
		afterIdx := i + len(needle)
		after := afterIdx >= len(s) || !isWordChar(rune(s[afterIdx]))
		if before && after {
			return true
		}
		idx = i + 1
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.'
}

// tokenize splits text into lowercase tokens preserving tech suffixes.
func tokenize(text string) []string {
	var toks []string
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			toks = append(toks, w)
		}
	}
	for _, r := range text {
		if isWordChar(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return toks
}

// looksLikeTech reports whether a token resembles a technology name:
// mixes letters with digits or tech punctuation, or has a known compound
// suffix. Pure numbers (years, counts) never qualify.
func looksLikeTech(tok string) bool {
	hasLetter := false
	hasMark := false
	for _, r := range tok {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), r == '+', r == '#', r == '.':
			hasMark = true
		}
	}
	if !hasLetter {
		return false
	}
	if hasMark {
		return true
	}
	return strings.HasSuffix(tok, "ops") || strings.HasSuffix(tok, "sql") || strings.HasSuffix(tok, "db")
}

// ParseManualSkills splits a comma-separated manual entry into skills.
// Manual entries carry full confidence — the user asserted them directly.
func ParseManualSkills(csv string) []Skill {
	var out []Skill
	seen := make(map[string]bool)
	for _, part := range strings.Split(csv, ",") {
		name := engine.CanonicalSkillKey(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Skill{Name: name, Confidence: 1.0, Source: SourceManual})
	}
	return out
}
