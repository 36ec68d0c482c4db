package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

type promptArg struct {
	name        string
	description string
	required    bool
}

type promptSpec struct {
	name        string
	description string
	args        []promptArg
	render      func(args map[string]string) string

	// choices restricts an argument to a fixed set of values.
	choices map[string][]string
}

func (b *Builder) PopulatePrompts() *Builder {
	specs := []promptSpec{
		{
			name:        "generate-program-prompt",
			description: "Design a new training program for a client and save it.",
			args: []promptArg{
				{"goal", "What the program should achieve, e.g. hypertrophy or a 5k time.", true},
				{"daysPerWeek", "Training days per week.", false},
				{"experience", "The client's training experience.", false},
				{"equipment", "Available equipment.", false},
				{"coachId", "Coach whose style the program should follow.", false},
			},
			render: generateProgramText,
		},
		{
			name:        "generate-blueprint-prompt",
			description: "Design a reusable program blueprint in a coach's style.",
			args: []promptArg{
				{"coachId", "Coach the blueprint belongs to.", true},
				{"goal", "Primary fitness goal of the blueprint.", true},
				{"durationWeeks", "Total duration in weeks.", false},
				{"targetAudience", "Who the blueprint is for.", false},
			},
			render: generateBlueprintText,
		},
		{
			name:        "personalize-program-prompt",
			description: "Turn a blueprint into a program tailored to one client.",
			args: []promptArg{
				{"blueprintId", "Blueprint to start from.", true},
				{"clientId", "Client the program is for.", true},
			},
			render: personalizeProgramText,
		},
		{
			name:        "analyze-progress-prompt",
			description: "Analyse a client's progress on a program and store the analysis.",
			args: []promptArg{
				{"clientId", "Client to analyse.", true},
				{"programId", "Program the client follows.", true},
				{"timeframe", "Period to analyse: 1_week, 2_weeks, 4_weeks, 8_weeks or entire_program.", false},
			},
			render: analyzeProgressText,
		},
		{
			name:        "evaluate-program-prompt",
			description: "Evaluate a program or blueprint and store the evaluation.",
			args: []promptArg{
				{"entityType", "What to evaluate: program or blueprint.", true},
				{"entityId", "ID of the program or blueprint.", true},
				{"entityName", "Name of the program or blueprint.", true},
				{"evaluationPurpose", "Purpose of the evaluation: " + strings.Join(spotr.EvaluationPurposes, ", ") + ".", true},
				{"clientId", "Client the evaluation is for, when judging client suitability.", false},
			},
			choices: map[string][]string{
				"entityType":        {"program", "blueprint"},
				"evaluationPurpose": spotr.EvaluationPurposes,
			},
			render: evaluateProgramText,
		},
	}

	for _, s := range specs {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(s.description)}
		for _, a := range s.args {
			argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(a.description)}
			if a.required {
				argOpts = append(argOpts, mcp.RequiredArgument())
			}
			opts = append(opts, mcp.WithArgument(a.name, argOpts...))
		}
		b.Prompt(PromptEntry{
			Prompt:  mcp.NewPrompt(s.name, opts...),
			Handler: promptHandler(s),
		})
	}
	return b
}

func promptHandler(s promptSpec) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		var missing []string
		for _, a := range s.args {
			if a.required && strings.TrimSpace(args[a.name]) == "" {
				missing = append(missing, a.name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("prompt %s: missing required argument(s): %s", s.name, strings.Join(missing, ", "))
		}
		for name, allowed := range s.choices {
			if v, ok := args[name]; ok && v != "" && !slices.Contains(allowed, v) {
				return nil, fmt.Errorf("prompt %s: %s must be one of %s, got %q", s.name, name, strings.Join(allowed, ", "), v)
			}
		}
		return mcp.NewGetPromptResult(s.description, []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(s.render(args))),
		}), nil
	}
}

func generateProgramText(args map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a training program with this goal: %s.\n", args["goal"])
	if v := args["daysPerWeek"]; v != "" {
		fmt.Fprintf(&b, "Schedule %s training days per week.\n", v)
	}
	if v := args["experience"]; v != "" {
		fmt.Fprintf(&b, "The client's experience: %s.\n", v)
	}
	if v := args["equipment"]; v != "" {
		fmt.Fprintf(&b, "Available equipment: %s.\n", v)
	}
	if v := args["coachId"]; v != "" {
		fmt.Fprintf(&b, "Follow the methodology in coach://%s/style.\n", v)
	}
	b.WriteString(`
1. Call fetch-all-movements to see the movement library.
2. Draft the program: days with blocks and exercises, choosing a format_type for each block and giving the parameters it needs.
3. Present the draft to the user and wait for confirmation.
4. Save it with create-program.`)
	return b.String()
}

func generateBlueprintText(args map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a program blueprint for coach %s with this goal: %s.\n", args["coachId"], args["goal"])
	if v := args["durationWeeks"]; v != "" {
		fmt.Fprintf(&b, "It should last %s weeks.\n", v)
	}
	if v := args["targetAudience"]; v != "" {
		fmt.Fprintf(&b, "Target audience: %s.\n", v)
	}
	fmt.Fprintf(&b, `
1. Read coach://%[1]s/profile and coach://%[1]s/style.
2. Split the blueprint into phases with session templates and exercise categories given as ranges.
3. Present the blueprint to the coach and wait for confirmation.
4. Save it with store-blueprint, then optionally check it with evaluate-program.`, args["coachId"])
	return b.String()
}

func personalizeProgramText(args map[string]string) string {
	return fmt.Sprintf(`Personalise blueprint %[1]s for client %[2]s.

1. Read blueprint://%[1]s and client://%[2]s/profile.
2. Create the program with create-program-from-blueprint.
3. Replace each exercise slot with a concrete movement from fetch-all-movements that suits the client, using update-program.
4. Evaluate the result for client suitability with evaluate-program.`, args["blueprintId"], args["clientId"])
}

func analyzeProgressText(args map[string]string) string {
	timeframe := args["timeframe"]
	if timeframe == "" {
		timeframe = spotr.Timeframe4Weeks
	}
	return fmt.Sprintf(`Analyse the progress of client %[1]s on program %[2]s over %[3]s.

1. Read program://%[2]s and client://%[1]s/programs/%[2]s/progress.
2. Compare logged performance with the plan: strength changes, body-composition changes and adherence.
3. Store the analysis with store-progress-analysis (timeframe %[4]s), including up to five actionable recommendations.`,
		args["clientId"], args["programId"], spotr.TimeframeLabel(timeframe), timeframe)
}

func evaluateProgramText(args map[string]string) string {
	kind, id, clientID := args["entityType"], args["entityId"], args["clientId"]

	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate the %q %s for %s.\n\n", args["entityName"], kind, strings.ReplaceAll(args["evaluationPurpose"], "_", " "))
	fmt.Fprintf(&b, "Read %s://%s to review its structure, approach and methodology.\n", kind, id)
	if clientID != "" {
		fmt.Fprintf(&b, "Read client://%s/profile to understand the client's needs and goals.\n", clientID)
	}
	fmt.Fprintf(&b, `
1. Assess the overall quality and effectiveness of the %[1]s.
2. Score structure and progression, exercise selection, volume and intensity, recovery, specificity and practicality from 0 to 100.
3. List its strengths, the areas to improve and concrete suggestions.
`, kind)
	if clientID != "" {
		b.WriteString("4. Conclude whether it suits the client and why.\n")
	}
	fmt.Fprintf(&b, `
Apply progressive overload, specificity, recovery and individual differences when judging.
Record the result with evaluate-program (entity_type %s, entity_id %s).`, kind, id)
	return b.String()
}
