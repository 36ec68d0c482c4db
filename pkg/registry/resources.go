package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

const jsonMIME = "application/json"

const muscleGroupTemplate = "movements://muscle-group/{group}"

// PopulateResources registers the read-only views: the movement library,
// one address per muscle group, and the backend documents addressed by id.
func (b *Builder) PopulateResources(backend spotr.Backend) *Builder {
	b.Resource(ResourceEntry{
		Resource: mcp.NewResource("movements://library", "Movements Library",
			mcp.WithResourceDescription("The complete movement library used to build programs. Every movement comes with a demo video."),
			mcp.WithMIMEType(jsonMIME)),
		Read: func(ctx context.Context, _ map[string]string) (any, error) {
			return backend.FetchAllMovements(ctx)
		},
	})

	b.Template(TemplateEntry{
		Template: mcp.NewResourceTemplate(muscleGroupTemplate, "Movements by muscle group",
			mcp.WithTemplateDescription("The movements for one muscle group, each with a demo video."),
			mcp.WithTemplateMIMEType(jsonMIME)),
		Read: func(ctx context.Context, params map[string]string) (any, error) {
			group, ok := spotr.ParseMuscleGroup(params["group"])
			if !ok {
				return nil, &spotr.NotFoundError{Kind: "muscle group", ID: params["group"]}
			}
			return backend.FetchMovementsByGroup(ctx, group)
		},
		Expand: muscleGroupResources,
	})

	templates := []struct {
		uri         string
		name        string
		description string
		read        ReadFunc
	}{
		{
			uri:         "program://{id}",
			name:        "Program",
			description: "A complete program with its days, blocks and exercises.",
			read: func(ctx context.Context, p map[string]string) (any, error) {
				if err := schema.ResourceID("id", p["id"]); err != nil {
					return nil, err
				}
				return backend.FetchProgram(ctx, p["id"])
			},
		},
		{
			uri:         "blueprint://{id}",
			name:        "Blueprint",
			description: "A stored program blueprint.",
			read: func(ctx context.Context, p map[string]string) (any, error) {
				if err := schema.ResourceID("id", p["id"]); err != nil {
					return nil, err
				}
				return backend.FetchBlueprint(ctx, p["id"])
			},
		},
		{
			uri:         "coach://{id}/profile",
			name:        "Coach profile",
			description: "A coach's profile: background, specialties and credentials.",
			read:        document(backend.FetchCoach),
		},
		{
			uri:         "coach://{id}/style",
			name:        "Coach style",
			description: "A coach's training methodology and preferences. Read it before designing programs or blueprints on the coach's behalf.",
			read:        document(backend.FetchCoachStyle),
		},
		{
			uri:         "client://{id}/profile",
			name:        "Client profile",
			description: "A client's profile: goals, experience, injuries and available equipment.",
			read:        document(backend.FetchClient),
		},
		{
			uri:         "client://{clientId}/programs/{programId}/progress",
			name:        "Client progress",
			description: "A client's logged sessions and measurements for one program.",
			read: func(ctx context.Context, p map[string]string) (any, error) {
				if err := schema.ResourceID("clientId", p["clientId"]); err != nil {
					return nil, err
				}
				if err := schema.ResourceID("programId", p["programId"]); err != nil {
					return nil, err
				}
				return backend.FetchClientProgress(ctx, p["clientId"], p["programId"])
			},
		},
	}
	for _, t := range templates {
		b.Template(TemplateEntry{
			Template: mcp.NewResourceTemplate(t.uri, t.name,
				mcp.WithTemplateDescription(t.description),
				mcp.WithTemplateMIMEType(jsonMIME)),
			Read: t.read,
		})
	}
	return b
}

func document(get func(context.Context, string) (spotr.Document, error)) ReadFunc {
	return func(ctx context.Context, p map[string]string) (any, error) {
		if err := schema.ResourceID("id", p["id"]); err != nil {
			return nil, err
		}
		return get(ctx, p["id"])
	}
}

// muscleGroupResources lists one address per muscle group.
func muscleGroupResources() []mcp.Resource {
	out := make([]mcp.Resource, 0, len(spotr.MuscleGroups))
	for _, g := range spotr.MuscleGroups {
		out = append(out, mcp.NewResource(
			fmt.Sprintf("movements://muscle-group/%s", g),
			fmt.Sprintf("%s Movements", g),
			mcp.WithResourceDescription(fmt.Sprintf("The %s movements, each with a demo video.", g)),
			mcp.WithMIMEType(jsonMIME)))
	}
	return out
}
