package pathserver

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
	"github.com/anatolykoptev/go_pathway/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SkillAssessOutput is the output for the skill_assess tool.
type SkillAssessOutput struct {
	PlanID     string             `json:"plan_id"`
	Plan       *pathway.Plan      `json:"plan"`
	Dimensions map[string]float64 `json:"score_dimensions"`
	Degraded   bool               `json:"degraded,omitempty"`
	Message    string             `json:"message"`
}

func registerSkillAssess(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "skill_assess",
		Description: "Run a full skill assessment toward a target role: extracts current skills from resume text and manual lists, computes prioritized skill gaps under the stated timeframe and weekly commitment, synthesizes a phased learning plan with milestones, resources and risks, and saves it. Returns the saved plan and its id.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SkillAssessInput) (*mcp.CallToolResult, SkillAssessOutput, error) {
		if input.TargetRole == "" {
			return nil, SkillAssessOutput{}, pathway.Validationf("target_role", "is required")
		}
		store, err := pathway.GetStore()
		if err != nil {
			return nil, SkillAssessOutput{}, err
		}

		bySources := make(map[pathway.SkillSource][]pathway.Skill)
		if input.ResumeText != "" {
			skills, err := deps.Extractor.ExtractSkills(ctx, input.ResumeText, pathway.SourceResume)
			if err != nil {
				return nil, SkillAssessOutput{}, err
			}
			bySources[pathway.SourceResume] = skills
		}
		if manual := input.TechnicalSkills + "," + input.SoftSkills; manual != "," {
			bySources[pathway.SourceManual] = pathway.ParseManualSkills(manual)
		}
		current := pathway.NormalizeSkills(bySources)

		years := toolutil.ParseBucketValue(input.Experience)
		var (
			plan *pathway.Plan
			deg  pathway.Degradation
		)
		err = engine.TrackOperation(ctx, "skill_assess:"+input.TargetRole, func(ctx context.Context) error {
			plan, deg, err = deps.Synthesizer.SynthesizePlan(ctx, pathway.SynthesisInput{
				UserID:          input.UserID,
				TargetRole:      input.TargetRole,
				JobDescription:  input.JobDescription,
				CurrentSkills:   current,
				ExperienceLevel: input.Experience,
				ExperienceYears: years,
				Timeframe:       input.Timeframe,
				HoursPerWeek:    toolutil.ParseBucketValue(input.TimeCommitment),
				LearningStyle:   input.LearningStyle,
				Budget:          input.Budget,
			})
			return err
		})
		if err != nil {
			return nil, SkillAssessOutput{}, err
		}

		if err := store.SavePlan(ctx, plan); err != nil {
			return nil, SkillAssessOutput{}, err
		}
		engine.IncrPlansSaved()

		if mem := pathway.GetMemory(); mem != nil {
			if err := mem.RecordAssessment(ctx, input.UserID, plan); err != nil {
				slog.Warn("assessment memory record failed", slog.Any("error", err))
			}
		}

		msg := "Assessment saved. Use plan_get, plan_progress and milestone_update with plan_id " + plan.ID + "."
		if deg.Degraded() {
			msg = "Assessment saved with fallback defaults in some sections (generative service degraded). Plan id " + plan.ID + "."
		}
		return nil, SkillAssessOutput{
			PlanID:     plan.ID,
			Plan:       plan,
			Dimensions: pathway.ScoreDimensions(current, years),
			Degraded:   deg.Degraded(),
			Message:    msg,
		}, nil
	})
}
