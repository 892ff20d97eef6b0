package pathway

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go_pathway/internal/engine"
)

// SynthesisInput carries everything one plan synthesis needs.
type SynthesisInput struct {
	UserID          string
	TargetRole      string
	JobDescription  string
	CurrentSkills   []Skill
	ExperienceLevel string
	ExperienceYears float64
	Timeframe       string
	HoursPerWeek    float64
	LearningStyle   string
	Budget          string
}

// Degradation records how far a synthesis had to fall back from the
// generative path. A degraded plan is still structurally complete.
type Degradation struct {
	LLMUnavailable bool     `json:"llm_unavailable,omitempty"`
	ParseFailed    bool     `json:"parse_failed,omitempty"`
	Repaired       []string `json:"repaired_sections,omitempty"`
}

// Degraded reports whether any fallback was applied.
func (d Degradation) Degraded() bool {
	return d.LLMUnavailable || d.ParseFailed || len(d.Repaired) > 0
}

// Synthesizer builds complete learning plans. It treats the generative
// capability as an untrusted producer: every section of its output is
// validated and, where invalid or missing, replaced by a deterministic
// default, so the returned plan always satisfies the structural contract.
type Synthesizer struct {
	llm    LLM
	binder *Binder
}

// NewSynthesizer creates a Synthesizer over the given capability and binder.
func NewSynthesizer(llm LLM, binder *Binder) *Synthesizer {
	return &Synthesizer{llm: llm, binder: binder}
}

// planDoc is the raw six-section shape requested from the LLM. Score
// fields decode as floats to tolerate "87.0" style output.
type planDoc struct {
	RequiredSkills []docRequired  `json:"required_skills"`
	SkillGaps      []docGap       `json:"skill_gaps"`
	LearningPath   []docPhase     `json:"learning_path"`
	Milestones     []docMilestone `json:"milestones"`
	Resources      []Resource     `json:"resources"`
	RiskAssessment []RiskItem     `json:"risk_assessment"`
}

type docRequired struct {
	Skill      string  `json:"skill"`
	Importance float64 `json:"importance"`
	Frequency  float64 `json:"frequency"`
}

type docGap struct {
	Skill        string  `json:"skill"`
	CurrentScore float64 `json:"current_score"`
	TargetScore  float64 `json:"target_score"`
	Priority     string  `json:"priority"`
}

type docPhase struct {
	Order            float64  `json:"order"`
	Title            string   `json:"title"`
	DurationEstimate string   `json:"duration_estimate"`
	Skills           []string `json:"skills_to_develop"`
}

type docMilestone struct {
	Title       string `json:"title"`
	TargetDate  string `json:"target_date"`
	Description string `json:"description"`
}

// requiredSkillsDoc is the shape of the standalone required-skills call.
type requiredSkillsDoc struct {
	RequiredSkills []docRequired `json:"required_skills"`
}

// SynthesizePlan runs the full pipeline: resolve the job description,
// derive required skills, compute gaps, ask the LLM for a plan, then
// validate and repair every section. It fails only on bad user input;
// upstream failures produce a degraded but complete plan.
func (s *Synthesizer) SynthesizePlan(ctx context.Context, in SynthesisInput) (*Plan, Degradation, error) {
	var deg Degradation
	if strings.TrimSpace(in.TargetRole) == "" {
		return nil, deg, Validationf("target_role", "is required")
	}

	jd := strings.TrimSpace(in.JobDescription)
	if jd == "" {
		jd = s.resolveJobDescription(ctx, in.TargetRole, &deg)
	}

	required := s.requiredSkills(ctx, jd, &deg)
	report := ComputeGaps(in.CurrentSkills, required, GapContext{
		Timeframe:       in.Timeframe,
		HoursPerWeek:    in.HoursPerWeek,
		ExperienceYears: in.ExperienceYears,
	})

	doc := s.requestPlan(ctx, in, jd, report, &deg)

	plan := &Plan{
		UserID:          in.UserID,
		TargetRole:      in.TargetRole,
		ExperienceLevel: in.ExperienceLevel,
		Timeframe:       in.Timeframe,
		Status:          PlanActive,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		EstimatedMonths: report.EstimatedMonths,
		Advisory:        report.Advisory,
	}

	plan.RequiredSkills = repairRequired(doc.RequiredSkills, required, &deg)
	plan.Gaps = repairGaps(doc.SkillGaps, report, &deg)
	plan.Phases = repairPhases(ctx, doc.LearningPath, plan.Gaps, in.CurrentSkills, s.binder, &deg)
	plan.Milestones = repairMilestones(doc.Milestones, plan.Phases, &deg)
	plan.Resources = s.repairResources(ctx, doc.Resources, plan.Gaps, in.CurrentSkills, &deg)
	plan.Risks = repairRisks(doc.RiskAssessment, in.Timeframe, report.Advisory, &deg)
	plan.Summary = buildSummary(plan, deg)

	if deg.Degraded() {
		engine.IncrPlansDegraded()
	}
	return plan, deg, nil
}

// resolveJobDescription fetches a generic job description for the role
// when the caller supplied none. Cached per role; deterministic template
// when the generative call fails.
func (s *Synthesizer) resolveJobDescription(ctx context.Context, role string, deg *Degradation) string {
	key := engine.CacheKey("jd", engine.CanonicalSkillKey(role))
	if cached, ok := engine.CacheLoadJSON[string](ctx, key); ok && cached != "" {
		return cached
	}
	text, err := completeCapped(ctx, s.llm, fmt.Sprintf(genericJDPrompt, role), 512)
	if err != nil || strings.TrimSpace(text) == "" {
		deg.Repaired = append(deg.Repaired, "job_description")
		return genericJDTemplate(role)
	}
	text = strings.TrimSpace(text)
	engine.CacheStoreJSON(ctx, key, text)
	return text
}

func genericJDTemplate(role string) string {
	return fmt.Sprintf("We are hiring a %s. The role requires strong technical "+
		"skills relevant to %s, communication, problem solving, teamwork, and "+
		"the ability to learn independently. Experience with modern tooling, "+
		"version control such as git, and collaborative development is expected.",
		role, role)
}

// requiredSkills derives the role's skill demands from the job description,
// falling back to local extraction with token-frequency counting.
func (s *Synthesizer) requiredSkills(ctx context.Context, jd string, deg *Degradation) []RequiredSkill {
	prompt := fmt.Sprintf(requiredSkillsPrompt, engine.TruncateRunes(jd, 6000, ""))
	doc, outcome := completeJSON[requiredSkillsDoc](ctx, s.llm, "", prompt)
	if outcome == parsedOK && len(doc.RequiredSkills) > 0 {
		out := make([]RequiredSkill, 0, len(doc.RequiredSkills))
		seen := make(map[string]bool)
		for _, r := range doc.RequiredSkills {
			name := engine.CanonicalSkillKey(r.Skill)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, RequiredSkill{
				Skill:      name,
				Importance: clampInt(int(math.Round(r.Importance)), 1, 10),
				Frequency:  clampInt(int(math.Round(r.Frequency)), 1, 100),
			})
		}
		if len(out) > 0 {
			return out
		}
	}
	switch outcome {
	case unavailable:
		deg.LLMUnavailable = true
	case parseFailed:
		deg.ParseFailed = true
	default:
		deg.Repaired = append(deg.Repaired, "required_skills")
	}
	slog.Warn("required skills: falling back to local extraction")

	lower := strings.ToLower(jd)
	var out []RequiredSkill
	for _, sk := range ExtractSkillsLocal(jd, SourceJobDescription) {
		out = append(out, RequiredSkill{
			Skill:      sk.Name,
			Importance: 5,
			Frequency:  max(1, strings.Count(lower, sk.Name)),
		})
	}
	return out
}

// requestPlan performs the main six-section generative call.
func (s *Synthesizer) requestPlan(ctx context.Context, in SynthesisInput, jd string, report GapReport, deg *Degradation) planDoc {
	var skills []string
	for _, sk := range in.CurrentSkills {
		skills = append(skills, fmt.Sprintf("%s (%.0f%%)", sk.Name, sk.Confidence*100))
	}
	var gaps []string
	for _, g := range report.Gaps {
		gaps = append(gaps, fmt.Sprintf("- %s: current %d, target %d, priority %s",
			g.Skill, g.CurrentScore, g.TargetScore, g.Priority))
	}
	extra := ""
	if report.Advisory != "" {
		extra = "\nNOTE: " + report.Advisory + "\n"
	}
	if past := recallPastAssessments(ctx, in.UserID, in.TargetRole); past != "" {
		extra += past
	}

	prompt := fmt.Sprintf(synthesizePlanPrompt,
		engine.CurrentDate(),
		in.TargetRole,
		orDefault(in.ExperienceLevel, "not stated"),
		orDefault(in.Timeframe, "not stated"),
		fmt.Sprintf("%.0f", in.HoursPerWeek),
		orDefault(in.LearningStyle, "any"),
		orDefault(in.Budget, "any"),
		strings.Join(skills, ", "),
		strings.Join(gaps, "\n"),
		engine.TruncateRunes(jd, 4000, ""),
		extra,
	)

	doc, outcome := completeJSON[planDoc](ctx, s.llm, "", prompt)
	switch outcome {
	case unavailable:
		deg.LLMUnavailable = true
		slog.Warn("plan synthesis: LLM unavailable, building default plan")
		return planDoc{}
	case parseFailed:
		deg.ParseFailed = true
		slog.Warn("plan synthesis: malformed LLM output, building default plan")
		return planDoc{}
	}
	return *doc
}

// recallPastAssessments folds recent similar assessments from the
// memory service into a prompt fragment. Empty when no client is
// configured, the query fails, or nothing similar exists.
func recallPastAssessments(ctx context.Context, userID, role string) string {
	mem := GetMemory()
	if mem == nil {
		return ""
	}
	past, err := mem.RecallSimilar(ctx, userID, role, 3)
	if err != nil {
		slog.Warn("memory recall failed", slog.String("error", err.Error()))
		return ""
	}
	if len(past) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nPrior assessments for this user:\n")
	for _, p := range past {
		b.WriteString("- ")
		b.WriteString(p.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// repairRequired keeps the LLM's required-skill list when usable,
// otherwise substitutes the computed one.
func repairRequired(doc []docRequired, computed []RequiredSkill, deg *Degradation) []RequiredSkill {
	var out []RequiredSkill
	seen := make(map[string]bool)
	for _, r := range doc {
		name := engine.CanonicalSkillKey(r.Skill)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, RequiredSkill{
			Skill:      name,
			Importance: clampInt(int(math.Round(r.Importance)), 1, 10),
			Frequency:  clampInt(int(math.Round(r.Frequency)), 1, 100),
		})
	}
	if len(out) == 0 {
		deg.Repaired = append(deg.Repaired, "required_skills")
		if len(computed) > 0 {
			return computed
		}
		return []RequiredSkill{{Skill: "continuous learning", Importance: 5, Frequency: 1}}
	}
	return out
}

// repairGaps always prefers the computed gap report; the LLM only
// echoes scores and is not trusted to change them.
func repairGaps(doc []docGap, report GapReport, deg *Degradation) []SkillGap {
	if len(report.Gaps) > 0 {
		return report.Gaps
	}
	var out []SkillGap
	seen := make(map[string]bool)
	for _, g := range doc {
		name := engine.CanonicalSkillKey(g.Skill)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cur := clampInt(int(math.Round(g.CurrentScore)), 0, 100)
		pr := PriorityMedium
		if g.Priority == string(PriorityHigh) {
			pr = PriorityHigh
		}
		out = append(out, SkillGap{
			Skill:        name,
			CurrentScore: cur,
			TargetScore:  100,
			GapMagnitude: 100 - cur,
			Priority:     pr,
		})
	}
	if len(out) == 0 {
		deg.Repaired = append(deg.Repaired, "skill_gaps")
		out = []SkillGap{{
			Skill:        "role mastery",
			CurrentScore: 50,
			TargetScore:  100,
			GapMagnitude: 50,
			Priority:     PriorityMedium,
		}}
	}
	return out
}

// repairPhases validates the learning path: phases renumbered contiguous
// from 1, blank titles defaulted, and the path padded to at least 3
// phases with deterministic defaults built from gaps or current skills.
func repairPhases(ctx context.Context, doc []docPhase, gaps []SkillGap, current []Skill, binder *Binder, deg *Degradation) []LearningPhase {
	ordered := make([]docPhase, len(doc))
	copy(ordered, doc)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	var out []LearningPhase
	for _, p := range ordered {
		title := strings.TrimSpace(p.Title)
		if title == "" && len(p.Skills) == 0 {
			continue
		}
		if title == "" {
			title = fmt.Sprintf("Phase %d", len(out)+1)
		}
		out = append(out, LearningPhase{
			Order:            len(out) + 1,
			Title:            title,
			DurationEstimate: orDefault(p.DurationEstimate, "2-3 months"),
			Skills:           cleanSkillList(p.Skills),
		})
	}

	if len(out) < 3 {
		deg.Repaired = append(deg.Repaired, "learning_path")
		out = padPhases(out, gaps, current)
	}
	return out
}

// padPhases extends a short path to the three default stages.
func padPhases(existing []LearningPhase, gaps []SkillGap, current []Skill) []LearningPhase {
	var gapNames, haveNames []string
	for _, g := range gaps {
		gapNames = append(gapNames, g.Skill)
	}
	for _, s := range current {
		haveNames = append(haveNames, s.Name)
	}
	if len(gapNames) == 0 {
		gapNames = haveNames
	}
	if len(gapNames) == 0 {
		gapNames = []string{"core skills"}
	}

	defaults := []LearningPhase{
		{Title: "Foundation", DurationEstimate: "1-2 months", Skills: firstN(gapNames, 3)},
		{Title: "Core skill building", DurationEstimate: "2-4 months", Skills: gapNames},
		{Title: "Applied practice", DurationEstimate: "2-3 months", Skills: gapNames},
	}
	if len(haveNames) > 0 {
		defaults[0].Skills = haveNames
	}

	out := existing
	for i := len(out); i < 3; i++ {
		p := defaults[i]
		p.Order = i + 1
		out = append(out, p)
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func cleanSkillList(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range in {
		name := engine.CanonicalSkillKey(s)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// repairMilestones validates milestone entries and defaults one per
// phase end when the section is missing or unusable. Dates outside
// YYYY-MM-DD are replaced with evenly spaced future dates.
func repairMilestones(doc []docMilestone, phases []LearningPhase, deg *Degradation) []Milestone {
	var out []Milestone
	for _, m := range doc {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			continue
		}
		out = append(out, Milestone{
			Title:      title,
			TargetDate: validDate(m.TargetDate, len(out)+1),
			Status:     StatusNotStarted,
			Notes:      strings.TrimSpace(m.Description),
		})
	}
	if len(out) == 0 {
		deg.Repaired = append(deg.Repaired, "milestones")
		for i, p := range phases {
			out = append(out, Milestone{
				Title:      "Complete " + strings.ToLower(p.Title),
				TargetDate: validDate("", i+1),
				Status:     StatusNotStarted,
			})
		}
	}
	return out
}

// validDate returns the given date if it parses as YYYY-MM-DD and is in
// the future, otherwise a date n*2 months out.
func validDate(s string, n int) string {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err == nil && t.After(time.Now()) {
		return t.Format("2006-01-02")
	}
	return time.Now().AddDate(0, 2*n, 0).Format("2006-01-02")
}

// repairResources validates the LLM's resource list and tops it up from
// the binder so every gap skill has at least one bound resource.
func (s *Synthesizer) repairResources(ctx context.Context, doc []Resource, gaps []SkillGap, current []Skill, deg *Degradation) []Resource {
	var out []Resource
	seen := make(map[string]bool)
	for _, r := range doc {
		r.Title = strings.TrimSpace(r.Title)
		r.URL = strings.TrimSpace(r.URL)
		if r.Title == "" || !strings.HasPrefix(r.URL, "http") || seen[r.URL] {
			continue
		}
		if !validResourceType(r.Type) {
			r.Type = TypeCourse
		}
		if !validPriceType(r.PriceType) {
			r.PriceType = PriceMixed
		}
		r.Skill = engine.CanonicalSkillKey(r.Skill)
		seen[r.URL] = true
		out = append(out, r)
	}

	covered := make(map[string]bool)
	for _, r := range out {
		covered[r.Skill] = true
	}
	var want []string
	for _, g := range gaps {
		want = append(want, g.Skill)
	}
	if len(want) == 0 {
		for _, sk := range current {
			want = append(want, sk.Name)
		}
	}
	repaired := false
	for _, skill := range want {
		if covered[skill] {
			continue
		}
		for _, r := range s.binder.ResourcesFor(ctx, skill, 3) {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			out = append(out, r)
		}
		covered[skill] = true
		repaired = true
	}
	if repaired && len(doc) == 0 {
		deg.Repaired = append(deg.Repaired, "resources")
	}
	if len(out) == 0 {
		deg.Repaired = append(deg.Repaired, "resources")
		out = fallbackResources("professional development")
	}
	return out
}

func validResourceType(t ResourceType) bool {
	switch t {
	case TypeCourse, TypeVideo, TypeDocumentation, TypeRepository:
		return true
	}
	return false
}

func validPriceType(t PriceType) bool {
	switch t {
	case PriceFree, PricePaid, PriceMixed:
		return true
	}
	return false
}

// repairRisks validates the risk section and substitutes generic entries
// when missing. The timeline advisory, when present, becomes a risk.
func repairRisks(doc []RiskItem, timeframe, advisory string, deg *Degradation) []RiskItem {
	var out []RiskItem
	for _, r := range doc {
		if strings.TrimSpace(r.Risk) == "" {
			continue
		}
		if r.Severity != "low" && r.Severity != "medium" && r.Severity != "high" {
			r.Severity = "medium"
		}
		out = append(out, r)
	}
	if advisory != "" {
		out = append(out, RiskItem{
			Risk:       "Stated timeframe (" + timeframe + ") is shorter than the estimated timeline",
			Severity:   "high",
			Mitigation: "Extend the target date or increase weekly study hours",
		})
	}
	if len(out) == 0 {
		deg.Repaired = append(deg.Repaired, "risk_assessment")
		out = []RiskItem{{
			Risk:       "Loss of momentum from irregular study schedule",
			Severity:   "medium",
			Mitigation: "Block recurring weekly study time and track milestones",
		}}
	}
	return out
}

// buildSummary derives the summary block locally. Never requested from
// the LLM, so its shape is deterministic regardless of upstream output.
func buildSummary(p *Plan, deg Degradation) PlanSummary {
	sum := PlanSummary{
		Title: "Learning plan: " + p.TargetRole,
		Overview: fmt.Sprintf("A %d-phase plan toward the %s role covering %d skill gaps, "+
			"estimated at %d months.", len(p.Phases), p.TargetRole, len(p.Gaps), p.EstimatedMonths),
		Counts: map[string]int{
			"required_skills": len(p.RequiredSkills),
			"skill_gaps":      len(p.Gaps),
			"learning_path":   len(p.Phases),
			"milestones":      len(p.Milestones),
			"resources":       len(p.Resources),
			"risk_assessment": len(p.Risks),
		},
		Degraded: deg.Degraded(),
	}
	if deg.LLMUnavailable {
		sum.Error = "generative service unavailable; plan built from deterministic defaults"
	} else if deg.ParseFailed {
		sum.Error = "generative output was malformed; affected sections rebuilt from defaults"
	}
	return sum
}
