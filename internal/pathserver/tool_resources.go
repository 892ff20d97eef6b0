package pathserver

import (
	"context"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LearningResourcesOutput is the output for the learning_resources tool.
type LearningResourcesOutput struct {
	Skill     string             `json:"skill"`
	Resources []pathway.Resource `json:"resources"`
	Total     int                `json:"total"`
}

func registerLearningResources(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "learning_resources",
		Description: "Find ranked learning resources (courses, videos, documentation, repositories) for a skill. Always returns at least a fallback set of search links.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.LearningResourcesInput) (*mcp.CallToolResult, LearningResourcesOutput, error) {
		if input.Skill == "" {
			return nil, LearningResourcesOutput{}, pathway.Validationf("skill", "is required")
		}
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 6
		}
		resources := deps.Binder.ResourcesFor(ctx, input.Skill, maxResults)
		return nil, LearningResourcesOutput{
			Skill:     input.Skill,
			Resources: resources,
			Total:     len(resources),
		}, nil
	})
}
