package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

const storeBlueprintDescription = `Store a program blueprint: a client-agnostic template a coach reuses to build personalised programs.

A blueprint is split into phases (for example Accumulation, Intensification, Deload). Each phase runs for a number of weeks and lists session templates; each session template lists exercise categories with ranges rather than fixed prescriptions, e.g. {"category": "Horizontal push", "set_range": "3-4", "rep_range": "8-12", "intensity_guideline": "RPE 7-8"}.

Read the coach's style (coach://{id}/style) first so the blueprint reflects their methodology.`

const programFromBlueprintDescription = `Create a personalised program for a client from a stored blueprint.

The first phase of the blueprint becomes the program: one day per session template, one exercise slot per exercise category with the category's set and rep ranges. Review the result with fetch-program and refine the exercises with update-program; the client's profile (client://{id}/profile) tells you which movements suit them.`

func (b *Builder) PopulateBlueprintTools(backend spotr.Backend) *Builder {
	blueprintID := func(a *schema.BlueprintIDArgs) string { return a.BlueprintID }

	return b.addTools(CategoryBlueprint, []toolSpec{
		{
			name:        "fetch-all-blueprints",
			title:       "Get all blueprints",
			description: "Fetch a summary of every stored blueprint. Use it to find the ID of a blueprint to build a program from.",
			readOnly:    true,
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				if _, err := parse[schema.NoArgs](raw); err != nil {
					return Outcome{}, err
				}
				blueprints, err := backend.FetchAllBlueprints(ctx)
				if err != nil {
					return Outcome{}, err
				}
				if blueprints == nil {
					blueprints = []spotr.BlueprintSummary{}
				}
				return Outcome{Message: "Fetched all blueprints!", Payload: blueprints}, nil
			},
		},
		{
			name:        "fetch-blueprint",
			title:       "Get blueprint",
			description: "Fetch an entire blueprint with its phases, session templates and exercise categories.",
			readOnly:    true,
			args:        []mcp.ToolOption{idArg("blueprintId", "ID of the blueprint; see fetch-all-blueprints.")},
			handler:     fetch("Fetched blueprint!", blueprintID, backend.FetchBlueprint),
		},
		{
			name:        "store-blueprint",
			title:       "Store blueprint",
			description: storeBlueprintDescription,
			args:        objectArg("blueprint", "The blueprint to store.", schema.BlueprintInputSchema()),
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.StoreBlueprintArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				bp, err := backend.CreateBlueprint(ctx, args.Blueprint)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Message: "Stored the new blueprint!", Payload: bp}, nil
			},
		},
		{
			name:        "create-program-from-blueprint",
			title:       "Create program from blueprint",
			description: programFromBlueprintDescription,
			args: []mcp.ToolOption{
				idArg("blueprintId", "ID of the blueprint to start from."),
				idArg("clientId", "ID of the client the program is for."),
				idArg("programName", "Name of the new program."),
				mcp.WithString("startDate", mcp.Description("First day of the program, YYYY-MM-DD.")),
				mcp.WithString("customizations", mcp.Description("Adjustments for this client, kept with the program description.")),
			},
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.ProgramFromBlueprintArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				p, err := backend.CreateProgramFromBlueprint(ctx, args.BlueprintID, args.Input())
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Message: "Created the new program from blueprint!", Payload: p}, nil
			},
		},
	})
}
