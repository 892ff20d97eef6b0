// Package pathserver registers the MCP tools for skill assessment and
// learning-plan management.
package pathserver

import (
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Deps holds the wired domain services the tools dispatch to.
type Deps struct {
	Extractor   *pathway.Extractor
	Synthesizer *pathway.Synthesizer
	Binder      *pathway.Binder
}

var deps Deps

// RegisterTools registers all pathway tools on the given MCP server.
func RegisterTools(server *mcp.Server, d Deps) {
	deps = d
	registerSkillExtract(server)
	registerSkillAssess(server)
	registerLearningResources(server)
	registerPlanList(server)
	registerPlanGet(server)
	registerPlanDelete(server)
	registerPlanArchive(server)
	registerMilestoneUpdate(server)
	registerPlanProgress(server)
}
