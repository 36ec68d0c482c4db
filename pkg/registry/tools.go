package registry

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

// Tool categories, usable as List("category:<name>").
const (
	CategoryMovements = "movements"
	CategoryPrograms  = "programs"
	CategoryBlueprint = "blueprints"
	CategoryAnalysis  = "analysis"
	CategorySharing   = "sharing"
)

// New builds the complete Spotr catalogue over backend.
func New(backend spotr.Backend, logger *log.Logger) (*Registry, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	return NewBuilder(logger).
		Instructions(serverInstructions).
		PopulateMovementTools(backend).
		PopulateProgramTools(backend).
		PopulateBlueprintTools(backend).
		PopulateAnalysisTools(backend).
		PopulateShareTools(backend).
		PopulateResources(backend).
		PopulatePrompts().
		Build()
}

// toolSpec is one row of a tool table.
type toolSpec struct {
	name        string
	title       string
	description string
	readOnly    bool
	destructive bool
	idempotent  bool
	args        []mcp.ToolOption
	handler     Handler
}

func (b *Builder) addTools(category string, specs []toolSpec) *Builder {
	for _, s := range specs {
		opts := []mcp.ToolOption{
			mcp.WithDescription(s.description),
			mcp.WithTitleAnnotation(s.title),
			mcp.WithReadOnlyHintAnnotation(s.readOnly),
			mcp.WithDestructiveHintAnnotation(s.destructive),
			mcp.WithIdempotentHintAnnotation(s.idempotent || s.readOnly),
			mcp.WithOpenWorldHintAnnotation(false),
		}
		opts = append(opts, s.args...)
		b.Tool(ToolEntry{
			Tool:     mcp.NewTool(s.name, opts...),
			Category: category,
			Handler:  s.handler,
		})
	}
	return b
}

// parse decodes and validates raw arguments. Nothing reaches the backend
// when it fails.
func parse[T any](raw []byte) (*T, error) {
	var args T
	if err := schema.Parse(raw, &args); err != nil {
		return nil, err
	}
	return &args, nil
}

// idArg declares a required identifier argument.
func idArg(name, description string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Required(), mcp.Description(description))
}

// objectArg declares a required object argument whose schema is s.
func objectArg(name, description string, s map[string]any) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithObject(name, withSchema(s), mcp.Description(description)),
		requireArgs(name),
	}
}

// withSchema copies a JSON Schema fragment into a property. The property's
// own required list stays with it; mcp.Required would overwrite it.
func withSchema(s map[string]any) mcp.PropertyOption {
	return func(prop map[string]any) {
		for k, v := range s {
			prop[k] = v
		}
	}
}

func requireArgs(names ...string) mcp.ToolOption {
	return func(t *mcp.Tool) {
		t.InputSchema.Required = append(t.InputSchema.Required, names...)
	}
}

// fetch adapts a single-identifier read into a Handler.
func fetch[A any, T any](message string, id func(*A) string, get func(context.Context, string) (T, error)) Handler {
	return func(ctx context.Context, raw []byte) (Outcome, error) {
		args, err := parse[A](raw)
		if err != nil {
			return Outcome{}, err
		}
		v, err := get(ctx, id(args))
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Message: message, Payload: v}, nil
	}
}
