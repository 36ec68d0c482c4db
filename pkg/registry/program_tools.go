package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

const createProgramDescription = `Create and save a structured workout program from the user's requirements.

A program has a name and description, and a list of days. Days are ordered by day_number and hold blocks; blocks are ordered by order_index and hold exercises, also ordered by order_index. Position keys must be unique among their siblings.

## Format types
format_type says how a block is performed:
- standard: sets and reps
- circuit: exercises done in sequence for a number of rounds
- emom: every minute on the minute
- amrap: as many rounds as possible
- tabata: high-intensity work intervals followed by rest
- complex: several movements combined into one sequence
Leave format_type null for unstructured blocks such as running intervals.

## Format parameters
- emom: {"time": 20, "time_units": "minutes"}
- amrap: {"time": 10, "time_units": "minutes"}
- circuit: {"rounds": 3}
- tabata: {"work": 20, "rest": 10, "rounds": 8, "time_units": "seconds"}
standard and complex take any object or null.

## Modifiable parameters
- strength: {"sets": 3, "reps": 10} or {"reps": "8-10"}
- timed: {"time": 30, "time_units": "s"}
- distance: {"distance": 1, "distance_units": "km"}
- rest: {"rest": 90, "rest_units": "s"}

## Example block
{"order_index": 0, "format_type": "standard", "exercises": [{"order_index": 0, "exercise_name": "Bench Press", "modifiable_parameters": {"sets": 3, "reps": "8-10"}}]}

Fetch the movement library (fetch-all-movements) before using this tool. Movements outside the library are allowed, but library movements should be preferred. Confirm the draft with the user before saving it.`

const updateProgramDescription = `Update a previously created program with the user's feedback.

Behaviour:
- Only what the request contains is changed; omitted fields and entities stay as they are.
- Days are matched by day_number, blocks and exercises by order_index.
- A day, block or exercise whose position key does not exist yet is created; a new exercise needs an exercise_name.
- Setting a nullable field to null clears it.

Examples:
- Rename: {"name": "Upper/Lower Split"}
- Change one day: {"days": [{"day_number": 2, "name": "Pull Day"}]}
- Change one exercise: {"days": [{"day_number": 1, "blocks": [{"order_index": 2, "exercises": [{"order_index": 3, "exercise_name": "Incline Press", "modifiable_parameters": {"sets": 4, "reps": "12"}}]}]}]}

You need the program's ID; call fetch-all-programs if you do not have it, and fetch-program to see its current content before editing. Confirm the change with the user first.`

func (b *Builder) PopulateProgramTools(backend spotr.Backend) *Builder {
	programID := func(a *schema.ProgramIDArgs) string { return a.ProgramID }

	return b.addTools(CategoryPrograms, []toolSpec{
		{
			name:        "fetch-all-programs",
			title:       "Get all programs",
			description: "Fetch a summary (id, name, description, timestamps) of every program you have created. Use it to find the ID of a program the user refers to.",
			readOnly:    true,
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				if _, err := parse[schema.NoArgs](raw); err != nil {
					return Outcome{}, err
				}
				programs, err := backend.FetchAllPrograms(ctx)
				if err != nil {
					return Outcome{}, err
				}
				if programs == nil {
					programs = []spotr.ProgramSummary{}
				}
				return Outcome{Message: "Fetched all programs!", Payload: programs}, nil
			},
		},
		{
			name:        "fetch-program",
			title:       "Get program",
			description: "Fetch an entire program with its days, blocks and exercises.",
			readOnly:    true,
			args:        []mcp.ToolOption{idArg("programId", "ID of the program; see fetch-all-programs.")},
			handler:     fetch("Fetched program!", programID, backend.FetchProgram),
		},
		{
			name:        "create-program",
			title:       "Create program",
			description: createProgramDescription,
			args:        objectArg("program", "The program to create.", schema.ProgramInputSchema()),
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.CreateProgramArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				p, err := backend.CreateProgram(ctx, args.Program)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Message: "Created the new program!", Payload: p}, nil
			},
		},
		{
			name:        "update-program",
			title:       "Update program",
			description: updateProgramDescription,
			idempotent:  true,
			args: append([]mcp.ToolOption{idArg("programId", "ID of the program to update.")},
				objectArg("update", "The changes to apply.", schema.ProgramUpdateSchema())...),
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.UpdateProgramArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				p, err := backend.UpdateProgram(ctx, args.ProgramID, args.Update)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Message: "Successfully updated program", Payload: p}, nil
			},
		},
		{
			name:        "delete-program",
			title:       "Delete program",
			description: "Delete an entire program. This cannot be undone; confirm with the user before calling it.",
			destructive: true,
			args:        []mcp.ToolOption{idArg("programId", "ID of the program to delete.")},
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.ProgramIDArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				if err := backend.DeleteProgram(ctx, args.ProgramID); err != nil {
					return Outcome{}, err
				}
				return Outcome{Message: "Successfully deleted program"}, nil
			},
		},
	})
}
