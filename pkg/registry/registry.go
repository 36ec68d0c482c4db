// Package registry maps tool names, resource URIs and prompt names to their
// declarations and handlers. A Registry is assembled once by a Builder and
// is read-only afterwards.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yosida95/uritemplate/v3"
)

// ErrNotRegistered is returned for names and URIs nothing was registered under.
var ErrNotRegistered = errors.New("not registered")

// Handler executes a tool call with the raw JSON arguments.
type Handler func(ctx context.Context, args []byte) (Outcome, error)

// Outcome is a successful tool result before rendering.
type Outcome struct {
	Message string
	Payload any
}

// ToolEntry represents a tool in the registry.
type ToolEntry struct {
	Tool     mcp.Tool
	Category string
	Handler  Handler
}

// ReadFunc produces the body of a resource. params holds the variables
// matched from a resource template and is empty for static resources.
type ReadFunc func(ctx context.Context, params map[string]string) (any, error)

type ResourceEntry struct {
	Resource mcp.Resource
	Read     ReadFunc
}

// TemplateEntry is a family of resources addressed by a URI template.
// Expand, when set, enumerates the concrete addresses the template covers.
type TemplateEntry struct {
	Template mcp.ResourceTemplate
	Read     ReadFunc
	Expand   func() []mcp.Resource

	uri *uritemplate.Template
}

type PromptEntry struct {
	Prompt  mcp.Prompt
	Handler server.PromptHandlerFunc
}

// Registry is the immutable dispatch table.
type Registry struct {
	tools            map[string]ToolEntry
	toolOrder        []string
	aliases          map[string]string
	canonicalAliases map[string][]string

	resources     map[string]ResourceEntry
	resourceOrder []string
	templates     []TemplateEntry

	prompts     map[string]PromptEntry
	promptOrder []string

	instructions string
	logger       *log.Logger
}

// Builder collects registrations. Problems are reported together by Build.
type Builder struct {
	tools        []ToolEntry
	resources    []ResourceEntry
	templates    []TemplateEntry
	prompts      []PromptEntry
	instructions string
	logger       *log.Logger
	errs         []error
}

func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{logger: logger}
}

func (b *Builder) Tool(entry ToolEntry) *Builder {
	if entry.Handler == nil {
		b.errs = append(b.errs, fmt.Errorf("tool %q has no handler", entry.Tool.Name))
	}
	b.tools = append(b.tools, entry)
	return b
}

func (b *Builder) Resource(entry ResourceEntry) *Builder {
	b.resources = append(b.resources, entry)
	return b
}

func (b *Builder) Template(entry TemplateEntry) *Builder {
	if entry.Template.URITemplate == nil {
		b.errs = append(b.errs, fmt.Errorf("resource template %q has no URI template", entry.Template.Name))
		return b
	}
	tmpl, err := uritemplate.New(entry.Template.URITemplate.Raw())
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("resource template %q: %w", entry.Template.Name, err))
		return b
	}
	entry.uri = tmpl
	b.templates = append(b.templates, entry)
	return b
}

func (b *Builder) Prompt(entry PromptEntry) *Builder {
	b.prompts = append(b.prompts, entry)
	return b
}

func (b *Builder) Instructions(text string) *Builder {
	b.instructions = text
	return b
}

// Build validates the collected entries and freezes them. Every name and
// URI must be unique within its address space; snake_case aliases of tool
// names may not collide with other tools either.
func (b *Builder) Build() (*Registry, error) {
	r := &Registry{
		tools:            make(map[string]ToolEntry, len(b.tools)),
		aliases:          make(map[string]string),
		canonicalAliases: make(map[string][]string),
		resources:        make(map[string]ResourceEntry, len(b.resources)),
		templates:        slices.Clone(b.templates),
		prompts:          make(map[string]PromptEntry, len(b.prompts)),
		instructions:     b.instructions,
		logger:           b.logger,
	}
	errs := slices.Clone(b.errs)

	for _, entry := range b.tools {
		name := entry.Tool.Name
		if name == "" {
			errs = append(errs, errors.New("tool with empty name"))
			continue
		}
		if _, ok := r.tools[name]; ok {
			errs = append(errs, fmt.Errorf("duplicate tool %q", name))
			continue
		}
		r.tools[name] = entry
		r.toolOrder = append(r.toolOrder, name)
	}
	for _, name := range r.toolOrder {
		if alias := snakeCaseName(name); alias != name {
			if err := r.registerAlias(name, alias); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, entry := range b.resources {
		uri := entry.Resource.URI
		if _, ok := r.resources[uri]; ok {
			errs = append(errs, fmt.Errorf("duplicate resource %q", uri))
			continue
		}
		r.resources[uri] = entry
		r.resourceOrder = append(r.resourceOrder, uri)
	}
	seen := make(map[string]bool, len(r.templates))
	for _, entry := range r.templates {
		raw := entry.uri.Raw()
		if seen[raw] {
			errs = append(errs, fmt.Errorf("duplicate resource template %q", raw))
		}
		seen[raw] = true
	}

	for _, entry := range b.prompts {
		name := entry.Prompt.Name
		if _, ok := r.prompts[name]; ok {
			errs = append(errs, fmt.Errorf("duplicate prompt %q", name))
			continue
		}
		r.prompts[name] = entry
		r.promptOrder = append(r.promptOrder, name)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return r, nil
}

func (r *Registry) registerAlias(canonical, alias string) error {
	if _, ok := r.tools[alias]; ok {
		return fmt.Errorf("alias %q conflicts with an existing tool name", alias)
	}
	if existing, ok := r.aliases[alias]; ok {
		return fmt.Errorf("alias %q already mapped to %q", alias, existing)
	}
	r.aliases[alias] = canonical
	r.canonicalAliases[canonical] = append(r.canonicalAliases[canonical], alias)
	return nil
}

// Tools returns every tool in registration order.
func (r *Registry) Tools() []ToolEntry {
	out := make([]ToolEntry, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		out = append(out, r.tools[name])
	}
	return out
}

// Lookup resolves a canonical name or alias.
func (r *Registry) Lookup(name string) (ToolEntry, bool) {
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	entry, ok := r.tools[name]
	return entry, ok
}

// Aliases returns the alternative names a tool answers to.
func (r *Registry) Aliases(name string) []string {
	return slices.Clone(r.canonicalAliases[name])
}

// List returns the tools matching query by name, alias or description. A
// query of the form "category:<name>" selects a category instead.
func (r *Registry) List(query string) []ToolEntry {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	category, byCategory := strings.CutPrefix(queryLower, "category:")

	var result []ToolEntry
	for _, name := range r.toolOrder {
		entry := r.tools[name]
		var matches bool
		switch {
		case byCategory:
			matches = strings.EqualFold(entry.Category, strings.TrimSpace(category))
		case queryLower == "":
			matches = true
		default:
			matches = strings.Contains(name, queryLower) ||
				strings.Contains(strings.ToLower(entry.Tool.Description), queryLower) ||
				slices.ContainsFunc(r.canonicalAliases[name], func(alias string) bool {
					return strings.Contains(alias, queryLower)
				})
		}
		if matches {
			result = append(result, entry)
		}
	}
	return result
}

// Categories lists the tool categories in registration order.
func (r *Registry) Categories() []string {
	var out []string
	for _, name := range r.toolOrder {
		if c := r.tools[name].Category; c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Call runs a tool. Unknown names return ErrNotRegistered; every other
// outcome, failures included, is rendered into the returned result.
func (r *Registry) Call(ctx context.Context, name string, args []byte) (*mcp.CallToolResult, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("tool %q: %w", name, ErrNotRegistered)
	}
	canonical := entry.Tool.Name

	start := time.Now()
	out, err := r.invoke(ctx, entry, args)
	if err != nil {
		r.logger.Warn("tool call failed", "tool", canonical, "duration", time.Since(start), "err", err)
	} else {
		r.logger.Info("tool call", "tool", canonical, "duration", time.Since(start))
	}
	return RenderOutcome(canonical, out, err), nil
}

func (r *Registry) invoke(ctx context.Context, entry ToolEntry, args []byte) (out Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", "tool", entry.Tool.Name, "panic", p)
			err = fmt.Errorf("internal error")
		}
	}()
	return entry.Handler(ctx, args)
}

// Read resolves uri against the static resources first and the templates
// second, and returns the rendered contents.
func (r *Registry) Read(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	start := time.Now()
	read, params, ok := r.resolve(uri)
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", uri, ErrNotRegistered)
	}
	body, err := read(ctx, params)
	if err != nil {
		r.logger.Warn("resource read failed", "uri", uri, "duration", time.Since(start), "err", err)
		return []mcp.ResourceContents{RenderReadFailure(uri, err)}, nil
	}
	r.logger.Info("resource read", "uri", uri, "duration", time.Since(start))
	contents, err := resourceContents(uri, body)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{contents}, nil
}

func (r *Registry) resolve(uri string) (ReadFunc, map[string]string, bool) {
	if entry, ok := r.resources[uri]; ok {
		return entry.Read, map[string]string{}, true
	}
	for _, entry := range r.templates {
		values := entry.uri.Match(uri)
		if values == nil {
			continue
		}
		params := make(map[string]string, len(entry.uri.Varnames()))
		for _, name := range entry.uri.Varnames() {
			params[name] = values.Get(name).String()
		}
		return entry.Read, params, true
	}
	return nil, nil, false
}

// ListResources enumerates the concrete resource addresses: the static
// resources followed by the expansions of enumerable templates.
func (r *Registry) ListResources() []mcp.Resource {
	out := make([]mcp.Resource, 0, len(r.resourceOrder))
	for _, uri := range r.resourceOrder {
		out = append(out, r.resources[uri].Resource)
	}
	for _, entry := range r.templates {
		if entry.Expand != nil {
			out = append(out, entry.Expand()...)
		}
	}
	return out
}

func (r *Registry) Resources() []ResourceEntry {
	out := make([]ResourceEntry, 0, len(r.resourceOrder))
	for _, uri := range r.resourceOrder {
		out = append(out, r.resources[uri])
	}
	return out
}

func (r *Registry) Templates() []TemplateEntry {
	return slices.Clone(r.templates)
}

func (r *Registry) Prompts() []PromptEntry {
	out := make([]PromptEntry, 0, len(r.promptOrder))
	for _, name := range r.promptOrder {
		out = append(out, r.prompts[name])
	}
	return out
}

// GetPrompt renders a prompt with the given arguments.
func (r *Registry) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	entry, ok := r.prompts[name]
	if !ok {
		return nil, fmt.Errorf("prompt %q: %w", name, ErrNotRegistered)
	}
	req := mcp.GetPromptRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return entry.Handler(ctx, req)
}

func (r *Registry) Instructions() string { return r.instructions }

// snakeCaseName turns a kebab-case tool name into its snake_case alias.
func snakeCaseName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
