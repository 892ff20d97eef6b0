// Package pathway implements the skill-gap analysis and learning-plan
// synthesis engine: skill extraction from free text, cross-source
// normalization, gap computation, plan synthesis with deterministic repair,
// resource binding, and plan/milestone persistence.
package pathway

import (
	"errors"
	"fmt"
)

// SkillSource identifies where a skill claim came from.
type SkillSource string

const (
	SourceResume         SkillSource = "resume"
	SourceManual         SkillSource = "manual"
	SourceJobDescription SkillSource = "job_description"
)

// ValidSkillSource checks if a source string is valid.
func ValidSkillSource(s string) bool {
	switch SkillSource(s) {
	case SourceResume, SourceManual, SourceJobDescription:
		return true
	}
	return false
}

// Skill is a named competency with a confidence weight and provenance.
// Name is canonical (lower-case, collapsed whitespace); Confidence in [0,1].
type Skill struct {
	Name       string        `json:"name"`
	Confidence float64       `json:"confidence"`
	Source     SkillSource   `json:"source,omitempty"`
	Sources    []SkillSource `json:"sources,omitempty"` // set by the normalizer; informational
}

// RequiredSkill is one skill demanded by the target role.
// Frequency counts mentions in the job description (priority signal).
type RequiredSkill struct {
	Skill      string `json:"skill"`
	Importance int    `json:"importance,omitempty"`
	Frequency  int    `json:"frequency,omitempty"`
}

// GapPriority classifies how urgently a gap should be closed.
type GapPriority string

const (
	PriorityHigh   GapPriority = "high"
	PriorityMedium GapPriority = "medium"
	PriorityLow    GapPriority = "low"
)

// SkillGap is one required skill the user does not yet sufficiently possess.
type SkillGap struct {
	Skill        string      `json:"skill"`
	CurrentScore int         `json:"current_score"`
	TargetScore  int         `json:"target_score"`
	GapMagnitude int         `json:"gap_magnitude"`
	Priority     GapPriority `json:"priority"`
}

// ResourceType categorizes a learning resource.
type ResourceType string

const (
	TypeCourse        ResourceType = "course"
	TypeVideo         ResourceType = "video"
	TypeDocumentation ResourceType = "documentation"
	TypeRepository    ResourceType = "repository"
)

// PriceType categorizes resource cost.
type PriceType string

const (
	PriceFree  PriceType = "free"
	PricePaid  PriceType = "paid"
	PriceMixed PriceType = "mixed"
)

// Resource is an external learning material bound to a skill.
// Resources are cached per skill and reused across plans.
type Resource struct {
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Provider  string       `json:"provider,omitempty"`
	Type      ResourceType `json:"resource_type"`
	PriceType PriceType    `json:"price_type"`
	Rating    float64      `json:"rating,omitempty"`
	Skill     string       `json:"skill"`
}

// LearningPhase is one ordered stage of a learning path.
// Order starts at 1 with no gaps; a finalized plan has at least 3 phases.
type LearningPhase struct {
	Order            int        `json:"order"`
	Title            string     `json:"title"`
	DurationEstimate string     `json:"duration_estimate"`
	Skills           []string   `json:"skills_to_develop"`
	Resources        []Resource `json:"resources,omitempty"`
}

// MilestoneStatus is the lifecycle status of a milestone.
type MilestoneStatus string

const (
	StatusNotStarted MilestoneStatus = "not_started"
	StatusInProgress MilestoneStatus = "in_progress"
	StatusCompleted  MilestoneStatus = "completed"
)

// ValidMilestoneStatus checks if a status string is valid.
func ValidMilestoneStatus(s string) bool {
	switch MilestoneStatus(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Milestone is a trackable checkpoint within a plan.
// Created at plan-save time; mutated only via status updates; deleted only
// with the whole plan.
type Milestone struct {
	ID          string          `json:"id"`
	PlanID      string          `json:"plan_id"`
	Title       string          `json:"title"`
	TargetDate  string          `json:"target_date"` // YYYY-MM-DD
	Status      MilestoneStatus `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CompletedAt string          `json:"completed_at,omitempty"` // RFC3339; empty = unset
}

// RiskItem is one entry of a plan's risk assessment.
type RiskItem struct {
	Risk       string `json:"risk"`
	Severity   string `json:"severity,omitempty"`
	Mitigation string `json:"mitigation,omitempty"`
}

// PlanStatus is the plan-level lifecycle status.
type PlanStatus string

const (
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)

// PlanSummary is the derived summary block appended to every plan.
// Always computed locally, never requested from the LLM.
type PlanSummary struct {
	Title    string         `json:"title"`
	Overview string         `json:"overview"`
	Counts   map[string]int `json:"counts"`
	Degraded bool           `json:"degraded,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Plan is the aggregate root: one ordered learning path with gaps,
// milestones, resources and risk assessment for a single assessment.
// Immutable after save except milestone status fields and Status.
type Plan struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id,omitempty"`
	TargetRole      string          `json:"target_role"`
	ExperienceLevel string          `json:"experience_level,omitempty"`
	Timeframe       string          `json:"timeframe,omitempty"`
	Status          PlanStatus      `json:"status"`
	CreatedAt       string          `json:"created_at"` // RFC3339
	RequiredSkills  []RequiredSkill `json:"required_skills"`
	Gaps            []SkillGap      `json:"skill_gaps"`
	Phases          []LearningPhase `json:"learning_path"`
	Milestones      []Milestone     `json:"milestones"`
	Resources       []Resource      `json:"resources"`
	Risks           []RiskItem      `json:"risk_assessment"`
	Summary         PlanSummary     `json:"summary"`
	EstimatedMonths int             `json:"estimated_months,omitempty"`
	Advisory        string          `json:"advisory,omitempty"`
}

// ErrNotFound is returned when a referenced plan or milestone does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError marks missing or malformed user input.
// Surfaced to the caller immediately, never retried or defaulted.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
