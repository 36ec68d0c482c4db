// Package inspector launches an MCP server as a child process and reports
// what it advertises.
package inspector

import (
	"context"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/config"
)

// Report is everything a server advertised during the handshake.
type Report struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Server          mcp.Implementation     `json:"serverInfo"`
	Instructions    string                 `json:"instructions,omitempty"`
	Tools           []mcp.Tool             `json:"tools"`
	Resources       []mcp.Resource         `json:"resources,omitempty"`
	Templates       []mcp.ResourceTemplate `json:"resourceTemplates,omitempty"`
	Prompts         []mcp.Prompt           `json:"prompts,omitempty"`
}

// Inspect launches command, performs the initialize handshake and lists the
// tools, resources and prompts the server declares. Capabilities the server
// does not announce are not queried.
//
// Inspect relies on ctx for the overall deadline.
func Inspect(ctx context.Context, command string, args ...string) (*Report, error) {
	stdio := transport.NewStdio(command, nil, args...)
	c := client.NewClient(stdio)
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}
	defer c.Close()

	go io.Copy(io.Discard, stdio.Stderr())

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    config.ServerName + "-inspector",
		Version: config.ServerVersion,
	}
	initRes, err := c.Initialize(ctx, initReq)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	report := &Report{
		ProtocolVersion: initRes.ProtocolVersion,
		Server:          initRes.ServerInfo,
		Instructions:    initRes.Instructions,
	}

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list: %w", err)
	}
	report.Tools = tools.Tools

	if initRes.Capabilities.Resources != nil {
		resources, err := c.ListResources(ctx, mcp.ListResourcesRequest{})
		if err != nil {
			return nil, fmt.Errorf("resources/list: %w", err)
		}
		report.Resources = resources.Resources

		templates, err := c.ListResourceTemplates(ctx, mcp.ListResourceTemplatesRequest{})
		if err != nil {
			return nil, fmt.Errorf("resources/templates/list: %w", err)
		}
		report.Templates = templates.ResourceTemplates
	}

	if initRes.Capabilities.Prompts != nil {
		prompts, err := c.ListPrompts(ctx, mcp.ListPromptsRequest{})
		if err != nil {
			return nil, fmt.Errorf("prompts/list: %w", err)
		}
		report.Prompts = prompts.Prompts
	}

	return report, nil
}
