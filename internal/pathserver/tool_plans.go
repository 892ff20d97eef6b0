package pathserver

import (
	"context"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PlanListItem is one row of the plan_list output.
type PlanListItem struct {
	PlanID          string             `json:"plan_id"`
	TargetRole      string             `json:"target_role"`
	Status          pathway.PlanStatus `json:"status"`
	CreatedAt       string             `json:"created_at"`
	EstimatedMonths int                `json:"estimated_months,omitempty"`
	Gaps            int                `json:"gaps"`
	Phases          int                `json:"phases"`
}

// PlanListOutput is the output for the plan_list tool.
type PlanListOutput struct {
	Plans []PlanListItem `json:"plans"`
	Total int            `json:"total"`
}

// PlanMessageOutput is the output for plan_delete and plan_archive.
type PlanMessageOutput struct {
	PlanID  string `json:"plan_id"`
	Message string `json:"message"`
}

func registerPlanList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_list",
		Description: "List saved learning plans, newest first, optionally filtered by user id.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlanListInput) (*mcp.CallToolResult, PlanListOutput, error) {
		store, err := pathway.GetStore()
		if err != nil {
			return nil, PlanListOutput{}, err
		}
		plans, err := store.ListPlans(ctx, input.UserID)
		if err != nil {
			return nil, PlanListOutput{}, err
		}
		out := PlanListOutput{Plans: make([]PlanListItem, 0, len(plans)), Total: len(plans)}
		for _, p := range plans {
			out.Plans = append(out.Plans, PlanListItem{
				PlanID:          p.ID,
				TargetRole:      p.TargetRole,
				Status:          p.Status,
				CreatedAt:       p.CreatedAt,
				EstimatedMonths: p.EstimatedMonths,
				Gaps:            len(p.Gaps),
				Phases:          len(p.Phases),
			})
		}
		return nil, out, nil
	})
}

func registerPlanGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_get",
		Description: "Load a saved learning plan by id, including phases, gaps, milestones, resources and risk assessment.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlanIDInput) (*mcp.CallToolResult, *pathway.Plan, error) {
		if input.PlanID == "" {
			return nil, nil, pathway.Validationf("plan_id", "is required")
		}
		store, err := pathway.GetStore()
		if err != nil {
			return nil, nil, err
		}
		plan, err := store.GetPlan(ctx, input.PlanID)
		if err != nil {
			return nil, nil, err
		}
		return nil, plan, nil
	})
}

func registerPlanDelete(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_delete",
		Description: "Delete a saved learning plan and all of its milestones.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlanIDInput) (*mcp.CallToolResult, PlanMessageOutput, error) {
		if input.PlanID == "" {
			return nil, PlanMessageOutput{}, pathway.Validationf("plan_id", "is required")
		}
		store, err := pathway.GetStore()
		if err != nil {
			return nil, PlanMessageOutput{}, err
		}
		if err := store.DeletePlan(ctx, input.PlanID); err != nil {
			return nil, PlanMessageOutput{}, err
		}
		return nil, PlanMessageOutput{PlanID: input.PlanID, Message: "Plan deleted."}, nil
	})
}

func registerPlanArchive(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_archive",
		Description: "Archive a learning plan. Archived plans stay readable but are marked inactive.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlanIDInput) (*mcp.CallToolResult, PlanMessageOutput, error) {
		if input.PlanID == "" {
			return nil, PlanMessageOutput{}, pathway.Validationf("plan_id", "is required")
		}
		store, err := pathway.GetStore()
		if err != nil {
			return nil, PlanMessageOutput{}, err
		}
		if err := store.SetPlanStatus(ctx, input.PlanID, pathway.PlanArchived); err != nil {
			return nil, PlanMessageOutput{}, err
		}
		return nil, PlanMessageOutput{PlanID: input.PlanID, Message: "Plan archived."}, nil
	})
}
