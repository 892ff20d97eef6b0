package pathway

import (
	"math"
	"sort"
	"strings"
)

// acquiredThreshold: a required skill held at or above this confidence is
// considered already met and reported rather than emitted as a gap.
const acquiredThreshold = 0.75

// factorBucket maps a numeric stated value to a factor.
type factorBucket struct {
	max    float64
	factor float64
}

// Commitment factor by stated weekly hours. More hours, higher factor,
// shorter timeline estimate.
var commitmentBuckets = []factorBucket{
	{max: 3, factor: 0.3},
	{max: 7, factor: 0.5},
	{max: 15, factor: 0.8},
	{max: math.MaxFloat64, factor: 1.0},
}

// Experience factor by stated years, feeds the reporting score dimensions.
var experienceBuckets = []factorBucket{
	{max: 1, factor: 0.2},
	{max: 3, factor: 0.4},
	{max: 5, factor: 0.6},
	{max: 10, factor: 0.8},
	{max: math.MaxFloat64, factor: 1.0},
}

// TimelineUrgency maps a stated timeframe to an urgency factor in [0,1].
// Shorter timeframe means higher urgency. Unrecognized input gets 0.5.
func TimelineUrgency(timeframe string) float64 {
	switch normalizeTimeframe(timeframe) {
	case "6m":
		return 0.9
	case "1y":
		return 0.7
	case "2y":
		return 0.5
	case "5y":
		return 0.3
	}
	return 0.5
}

// TimeframeMonths returns the stated timeframe as months, 0 if unrecognized.
func TimeframeMonths(timeframe string) int {
	switch normalizeTimeframe(timeframe) {
	case "6m":
		return 6
	case "1y":
		return 12
	case "2y":
		return 24
	case "5y":
		return 60
	}
	return 0
}

func normalizeTimeframe(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.ReplaceAll(t, " ", "")
	switch t {
	case "6m", "6months", "6month", "halfyear":
		return "6m"
	case "1y", "1year", "12m", "12months", "oneyear":
		return "1y"
	case "2y", "2years", "24m", "24months", "twoyears":
		return "2y"
	case "5y", "5years", "60m", "fiveyears", "5+years":
		return "5y"
	}
	return ""
}

// CommitmentFactor maps stated weekly hours to a factor in (0,1].
// Non-positive or unparsable input gets 0.5.
func CommitmentFactor(hoursPerWeek float64) float64 {
	if hoursPerWeek <= 0 {
		return 0.5
	}
	return bucketFactor(commitmentBuckets, hoursPerWeek)
}

// ExperienceFactor maps stated years of experience to a factor in (0,1].
func ExperienceFactor(years float64) float64 {
	if years < 0 {
		years = 0
	}
	return bucketFactor(experienceBuckets, years)
}

func bucketFactor(buckets []factorBucket, v float64) float64 {
	for _, b := range buckets {
		if v <= b.max {
			return b.factor
		}
	}
	return buckets[len(buckets)-1].factor
}

// GapContext carries the user constraints feeding gap classification.
type GapContext struct {
	Timeframe       string
	HoursPerWeek    float64
	ExperienceYears float64
}

// GapReport is the full output of one gap computation.
type GapReport struct {
	Gaps            []SkillGap         `json:"skill_gaps"`
	AlreadyMet      []SkillGap         `json:"already_met,omitempty"`
	EstimatedMonths int                `json:"estimated_months"`
	Advisory        string             `json:"advisory,omitempty"`
	Dimensions      map[string]float64 `json:"score_dimensions"`
}

// ComputeGaps compares the current skill profile against the required
// skills for the target role and classifies each shortfall.
//
// Priority policy: high when the skill recurs in the source text
// (frequency above 1) or the stated timeframe is urgent; medium otherwise.
// Required skills already held at or above the acquired threshold are
// reported separately and excluded from the timeline estimate.
func ComputeGaps(current []Skill, required []RequiredSkill, gc GapContext) GapReport {
	byName := make(map[string]Skill, len(current))
	for _, s := range current {
		byName[s.Name] = s
	}

	urgency := TimelineUrgency(gc.Timeframe)
	commitment := CommitmentFactor(gc.HoursPerWeek)

	var rep GapReport
	var high, medium int
	for _, req := range required {
		name := req.Skill
		have, ok := byName[name]
		currentScore := 0
		if ok {
			currentScore = int(math.Round(have.Confidence * 100))
		}
		gap := SkillGap{
			Skill:        name,
			CurrentScore: currentScore,
			TargetScore:  100,
			GapMagnitude: 100 - currentScore,
		}
		if ok && have.Confidence >= acquiredThreshold {
			gap.Priority = PriorityLow
			rep.AlreadyMet = append(rep.AlreadyMet, gap)
			continue
		}
		if req.Frequency > 1 || urgency > 0.7 {
			gap.Priority = PriorityHigh
			high++
		} else {
			gap.Priority = PriorityMedium
			medium++
		}
		rep.Gaps = append(rep.Gaps, gap)
	}

	// Stable ordering: high before medium, then by name.
	sort.SliceStable(rep.Gaps, func(i, j int) bool {
		a, b := rep.Gaps[i], rep.Gaps[j]
		if a.Priority != b.Priority {
			return a.Priority == PriorityHigh
		}
		return a.Skill < b.Skill
	})

	months := int(math.Round((float64(high) + 0.5*float64(medium)) * 3 / commitment))
	rep.EstimatedMonths = clampInt(months, 3, 36)

	if want := TimeframeMonths(gc.Timeframe); want > 0 && want < rep.EstimatedMonths {
		rep.Advisory = "The requested timeframe is shorter than the estimated " +
			"timeline. Consider extending the target date or increasing weekly " +
			"study hours."
	}

	rep.Dimensions = ScoreDimensions(current, gc.ExperienceYears)
	return rep
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dimensionKeywords assigns skills to reporting dimensions by name match.
var dimensionKeywords = map[string][]string{
	"communication":   {"communication", "writing", "presentation", "public speaking"},
	"leadership":      {"leadership", "management", "mentoring", "team"},
	"problem_solving": {"problem solving", "algorithms", "debugging", "system design"},
	"creativity":      {"creativity", "design", "ux", "ui", "innovation"},
}

// ScoreDimensions derives the five 0-100 reporting scores from the current
// skill profile and stated experience. Skills not matching a soft dimension
// count toward technical. Reporting data only, never gates gap emission.
func ScoreDimensions(current []Skill, experienceYears float64) map[string]float64 {
	exp := ExperienceFactor(experienceYears)
	base := 40 + 40*exp

	sums := map[string]float64{
		"technical":       0,
		"communication":   0,
		"leadership":      0,
		"problem_solving": 0,
		"creativity":      0,
	}
	counts := map[string]int{}
	for _, s := range current {
		dim := "technical"
	match:
		for d, kws := range dimensionKeywords {
			for _, kw := range kws {
				if strings.Contains(s.Name, kw) {
					dim = d
					break match
				}
			}
		}
		sums[dim] += s.Confidence
		counts[dim]++
	}

	out := make(map[string]float64, len(sums))
	for dim := range sums {
		score := base
		if n := counts[dim]; n > 0 {
			avg := sums[dim] / float64(n)
			score = base*0.5 + avg*100*0.5
		}
		out[dim] = math.Round(clampFloat(score, 0, 100))
	}
	return out
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
