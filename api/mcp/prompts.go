package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/workflow"
)

// registerPrompts exposes each workflow as an MCP prompt. A prompt resolves
// to a single composed instructional message; the assembler guarantees a
// usable payload even when the backend is unreachable.
func (s *Server) registerPrompts(srv *mcp.Server) {
	srv.AddPrompt(&mcp.Prompt{
		Name:        workflow.NameOrientation,
		Description: "Orient the assistant in the Aletha knowledge base: catalog layout, role annotations, and navigation.",
		Arguments: []*mcp.PromptArgument{
			{Name: "current_task", Description: "What the user is currently working on."},
		},
	}, s.promptHandler(workflow.NameOrientation))

	srv.AddPrompt(&mcp.Prompt{
		Name:        workflow.NameMarketingCreation,
		Description: "Set up a brand-compliant marketing content creation session with the critical documents preloaded.",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "The subject of the content being created."},
			{Name: "current_task", Description: "What the user is currently working on."},
		},
	}, s.promptHandler(workflow.NameMarketingCreation))

	srv.AddPrompt(&mcp.Prompt{
		Name:        workflow.NameGuideCreation,
		Description: "Set up an educational guide creation session with citation accuracy as the dominant constraint.",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "The subject of the guide."},
			{Name: "guide_type", Description: "The kind of guide, e.g. how-to or educational."},
		},
	}, s.promptHandler(workflow.NameGuideCreation))
}

func (s *Server) promptHandler(name string) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		params := workflow.Params{}
		if req.Params.Arguments != nil {
			params.Task = req.Params.Arguments["current_task"]
			params.Topic = req.Params.Arguments["topic"]
			params.Subtype = req.Params.Arguments["guide_type"]
		}

		payload, err := s.config.Assembler.Build(ctx, name, params)
		if err != nil {
			return nil, err
		}

		return &mcp.GetPromptResult{
			Description: "Aletha knowledge-base workflow: " + name,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: payload},
				},
			},
		}, nil
	}
}
