package engine

// MCP tool input shapes. Kept free of domain types so tool schemas stay
// flat string/int fields (jsonschema-friendly).

// SkillExtractInput is the input for the skill_extract tool.
type SkillExtractInput struct {
	Text   string `json:"text" jsonschema:"resume, bio, or job description text to extract skills from"`
	Source string `json:"source,omitempty" jsonschema:"where the text came from: resume, manual, or job_description (default resume)"`
}

// SkillAssessInput is the input for the skill_assess tool.
type SkillAssessInput struct {
	TargetRole      string `json:"target_role" jsonschema:"role the user wants to move into, e.g. 'Senior Backend Engineer'"`
	JobDescription  string `json:"job_description,omitempty" jsonschema:"job description for the target role; when absent a generic one is generated"`
	ResumeText      string `json:"resume_text,omitempty" jsonschema:"raw resume text; skills are extracted from it"`
	TechnicalSkills string `json:"technical_skills,omitempty" jsonschema:"comma-separated technical skills entered manually"`
	SoftSkills      string `json:"soft_skills,omitempty" jsonschema:"comma-separated soft skills entered manually"`
	Experience      string `json:"experience,omitempty" jsonschema:"years of experience bucket: 0-1, 1-3, 3-5, 5-10, 10+"`
	Timeframe       string `json:"timeframe,omitempty" jsonschema:"target timeframe bucket: 6m, 1y, 2y, 5y"`
	TimeCommitment  string `json:"time_commitment,omitempty" jsonschema:"weekly learning hours bucket: 1-3, 4-7, 8-15, 16+"`
	LearningStyle   string `json:"learning_style,omitempty" jsonschema:"preferred style: visual, reading, interactive, audio_video"`
	Budget          string `json:"budget,omitempty" jsonschema:"learning budget bucket: free, low, medium, high"`
	UserID          string `json:"user_id,omitempty" jsonschema:"owner id for the saved plan"`
}

// LearningResourcesInput is the input for the learning_resources tool.
type LearningResourcesInput struct {
	Skill      string `json:"skill" jsonschema:"skill to find learning resources for"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"max resources to return (default 6)"`
}

// PlanIDInput is the input for plan_get, plan_delete, plan_archive and plan_progress.
type PlanIDInput struct {
	PlanID string `json:"plan_id" jsonschema:"plan identifier returned by skill_assess"`
}

// PlanListInput is the input for the plan_list tool.
type PlanListInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"filter plans by owner id"`
}

// MilestoneUpdateInput is the input for the milestone_update tool.
type MilestoneUpdateInput struct {
	MilestoneID string `json:"milestone_id" jsonschema:"milestone identifier"`
	Status      string `json:"status" jsonschema:"new status: not_started, in_progress, completed"`
	Notes       string `json:"notes,omitempty" jsonschema:"free-form progress notes"`
}
