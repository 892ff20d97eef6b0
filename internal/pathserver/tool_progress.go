package pathserver

import (
	"context"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerMilestoneUpdate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "milestone_update",
		Description: "Update a milestone's status (not_started, in_progress, completed) and notes. Completing a milestone stamps completed_at; leaving completed clears it.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.MilestoneUpdateInput) (*mcp.CallToolResult, *pathway.Milestone, error) {
		if input.MilestoneID == "" {
			return nil, nil, pathway.Validationf("milestone_id", "is required")
		}
		store, err := pathway.GetStore()
		if err != nil {
			return nil, nil, err
		}
		m, err := pathway.UpdateMilestoneStatus(ctx, store, input.MilestoneID, pathway.MilestoneStatus(input.Status), input.Notes)
		if err != nil {
			return nil, nil, err
		}
		return nil, m, nil
	})
}

func registerPlanProgress(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_progress",
		Description: "Report a plan's overall progress: completion percentage and per-status milestone counts.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlanIDInput) (*mcp.CallToolResult, *pathway.ProgressReport, error) {
		if input.PlanID == "" {
			return nil, nil, pathway.Validationf("plan_id", "is required")
		}
		store, err := pathway.GetStore()
		if err != nil {
			return nil, nil, err
		}
		rep, err := pathway.OverallProgress(ctx, store, input.PlanID)
		if err != nil {
			return nil, nil, err
		}
		return nil, rep, nil
	})
}
