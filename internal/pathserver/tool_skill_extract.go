package pathserver

import (
	"context"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
	"github.com/anatolykoptev/go_pathway/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SkillExtractOutput is the output for the skill_extract tool.
type SkillExtractOutput struct {
	Skills []pathway.Skill `json:"skills"`
	Total  int             `json:"total"`
	Source string          `json:"source"`
}

func registerSkillExtract(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "skill_extract",
		Description: "Extract a weighted skill list from free-form text (resume, bio, or job description). Each skill gets a canonical lower-case name and a confidence between 0 and 1.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SkillExtractInput) (*mcp.CallToolResult, SkillExtractOutput, error) {
		source := pathway.SkillSource(toolutil.NormSource(input.Source))
		if !pathway.ValidSkillSource(string(source)) {
			return nil, SkillExtractOutput{}, pathway.Validationf("source", "must be resume, manual, or job_description")
		}

		cacheKey := engine.CacheKey("skill_extract", string(source), input.Text)
		if out, ok := engine.CacheLoadJSON[SkillExtractOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		skills, err := deps.Extractor.ExtractSkills(ctx, input.Text, source)
		if err != nil {
			return nil, SkillExtractOutput{}, err
		}
		out := SkillExtractOutput{Skills: skills, Total: len(skills), Source: string(source)}
		engine.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}
