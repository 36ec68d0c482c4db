package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

func (b *Builder) PopulateMovementTools(backend spotr.Backend) *Builder {
	return b.addTools(CategoryMovements, []toolSpec{
		{
			name:  "fetch-all-movements",
			title: "Get all movements",
			description: `Fetch the movement library with a demo video for every movement, grouped by muscle group (Chest, Back, Shoulders, Arms, Legs, Core).
Call this before designing a program so you know which movements are available; prefer them when prescribing exercises. Pass muscleGroup to fetch a single group, for example when the program follows a body-part split.`,
			readOnly: true,
			args: []mcp.ToolOption{
				mcp.WithString("muscleGroup",
					mcp.Description("Restrict the result to one muscle group."),
					mcp.Enum(schema.MuscleGroupNames()...)),
			},
			handler: fetchMovements(backend),
		},
		{
			name:  "search-movements",
			title: "Search movements",
			description: `Search the movement library by name or variation, case-insensitively. Use it to find the exact name and demo video of a movement the user mentions.
Results keep the library order and carry their muscle_group.`,
			readOnly: true,
			args: []mcp.ToolOption{
				mcp.WithString("query", mcp.Description("Text to look for in movement names and variations. Empty matches everything.")),
				mcp.WithString("muscleGroup",
					mcp.Description("Restrict the search to one muscle group."),
					mcp.Enum(schema.MuscleGroupNames()...)),
				mcp.WithNumber("limit",
					mcp.Description(fmt.Sprintf("Maximum number of results (default %d).", spotr.DefaultSearchLimit)),
					mcp.Min(1), mcp.Max(100)),
			},
			handler: searchMovements(backend),
		},
	})
}

func fetchMovements(backend spotr.Backend) Handler {
	return func(ctx context.Context, raw []byte) (Outcome, error) {
		args, err := parse[schema.MovementGroupArgs](raw)
		if err != nil {
			return Outcome{}, err
		}
		if args.MuscleGroup == "" {
			lib, err := backend.FetchAllMovements(ctx)
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Message: "Fetched all movements! Review them all carefully.", Payload: lib}, nil
		}

		group := spotr.MuscleGroup(args.MuscleGroup)
		movements, err := backend.FetchMovementsByGroup(ctx, group)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Message: fmt.Sprintf("Fetched all %s movements! Review them all carefully.", group),
			Payload: spotr.MovementLibrary{group: movements},
		}, nil
	}
}

func searchMovements(backend spotr.Backend) Handler {
	return func(ctx context.Context, raw []byte) (Outcome, error) {
		args, err := parse[schema.SearchMovementsArgs](raw)
		if err != nil {
			return Outcome{}, err
		}
		found, err := backend.SearchMovements(ctx, args.MovementQuery())
		if err != nil {
			return Outcome{}, err
		}
		if found == nil {
			found = []spotr.Movement{}
		}
		return Outcome{Message: fmt.Sprintf("Found %d movements.", len(found)), Payload: found}, nil
	}
}
