// Package router exposes a registry.Registry over the Model Context Protocol
// on a stdio stream.
package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/misfitdev/spotr-mcp/pkg/config"
	"github.com/misfitdev/spotr-mcp/pkg/registry"
)

// NewServer declares every tool, resource, resource template and prompt of
// reg on a new MCP server. Calls are dispatched back to reg.
func NewServer(reg *registry.Registry) *server.MCPServer {
	s := server.NewMCPServer(
		config.ServerName,
		config.ServerVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(reg.Instructions()),
	)

	for _, entry := range reg.Tools() {
		s.AddTool(entry.Tool, toolHandler(reg, entry.Tool.Name))
	}

	read := func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return reg.Read(ctx, req.Params.URI)
	}
	// Concrete addresses include the expansions of enumerable templates so
	// resources/list shows them.
	for _, resource := range reg.ListResources() {
		s.AddResource(resource, read)
	}
	for _, entry := range reg.Templates() {
		s.AddResourceTemplate(entry.Template, read)
	}

	for _, entry := range reg.Prompts() {
		name := entry.Prompt.Name
		s.AddPrompt(entry.Prompt, func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return reg.GetPrompt(ctx, name, req.Params.Arguments)
		})
	}
	return s
}

func toolHandler(reg *registry.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args []byte
		if req.Params.Arguments != nil {
			raw, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return nil, fmt.Errorf("encode arguments for %s: %w", name, err)
			}
			args = raw
		}
		return reg.Call(ctx, name, args)
	}
}
