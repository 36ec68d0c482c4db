package schema

import "github.com/misfitdev/spotr-mcp/pkg/spotr"

// The functions below return JSON Schema fragments advertised to the
// calling agent. Descriptions are read by the agent before it builds
// arguments, so they document conventions the validator enforces.

func obj(required []string, props map[string]any, description string) map[string]any {
	out := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	if description != "" {
		out["description"] = description
	}
	return out
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func nullableStr(description string) map[string]any {
	return map[string]any{"type": []string{"string", "null"}, "description": description}
}

func integer(description string, min, max *int) map[string]any {
	out := map[string]any{"type": "integer", "description": description}
	if min != nil {
		out["minimum"] = *min
	}
	if max != nil {
		out["maximum"] = *max
	}
	return out
}

func num(description string, min, max *int) map[string]any {
	out := integer(description, min, max)
	out["type"] = "number"
	return out
}

func array(description string, items map[string]any, minItems, maxItems int) map[string]any {
	out := map[string]any{"type": "array", "description": description, "items": items}
	if minItems > 0 {
		out["minItems"] = minItems
	}
	if maxItems > 0 {
		out["maxItems"] = maxItems
	}
	return out
}

func enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func bound(n int) *int { return &n }

func openMap(description string) map[string]any {
	return map[string]any{"type": []string{"object", "null"}, "description": description}
}

// MuscleGroupNames lists the muscle-group taxonomy as strings.
func MuscleGroupNames() []string {
	out := make([]string, 0, len(spotr.MuscleGroups))
	for _, g := range spotr.MuscleGroups {
		out = append(out, string(g))
	}
	return out
}

func formatTypeNames() []string {
	out := make([]string, 0, len(spotr.FormatTypes))
	for _, ft := range spotr.FormatTypes {
		out = append(out, string(ft))
	}
	return out
}

const formatTypeDoc = `How the block's exercises are performed: standard (sets and reps), circuit (sequential exercises in rounds), emom (every minute on the minute), amrap (as many rounds as possible), tabata (work/rest intervals), complex (movements combined into a sequence). Null for unstructured blocks such as running intervals.`

const formatParametersDoc = `Settings for the block's format_type. Required shapes: emom {"time": 12, "time_units": "mins"}; amrap {"time": 10, "time_units": "minutes"}; circuit {"rounds": 3}; tabata {"work": 20, "rest": 10, "rounds": 8, "time_units": "seconds"}. standard and complex accept any object or null.`

const modifiableParametersDoc = `Prescription for the exercise; the shape varies by exercise type. Strength: {"sets": 3, "reps": 10} or {"reps": "8-10"}. Timed: {"time": 30, "time_units": "s"}. Distance: {"distance": 1, "distance_units": "km"}. Rest: {"rest": 90, "rest_units": "s"}. sets must be a positive integer; time, distance and rest non-negative numbers.`

func exerciseSchema(update bool) map[string]any {
	props := map[string]any{
		"order_index":           integer("Position of the exercise within its block. Unique within the block; used to match exercises on update.", bound(0), nil),
		"exercise_name":         str("Movement name, preferably taken from the movement library (fetch-all-movements)."),
		"video_url":             nullableStr("Demo video URL, usually the movement's client_demo."),
		"notes":                 nullableStr("Coaching notes for the client."),
		"modifiable_parameters": openMap(modifiableParametersDoc),
	}
	required := []string{"order_index", "exercise_name"}
	if update {
		required = []string{"order_index"}
	}
	return obj(required, props, "")
}

func blockSchema(update bool) map[string]any {
	formatType := enum(formatTypeDoc, formatTypeNames()...)
	formatType["type"] = []string{"string", "null"}
	props := map[string]any{
		"order_index":       integer("Position of the block within its day. Unique within the day; used to match blocks on update.", bound(0), nil),
		"name":              nullableStr("Block name, e.g. \"Speed Work\"."),
		"description":       nullableStr("What the block is for."),
		"format_type":       formatType,
		"format_parameters": openMap(formatParametersDoc),
		"exercises":         array("Exercises in the block, ordered by order_index.", exerciseSchema(update), 0, 0),
	}
	required := []string{"order_index", "exercises"}
	if update {
		required = []string{"order_index"}
	}
	return obj(required, props, "")
}

func daySchema(update bool) map[string]any {
	props := map[string]any{
		"day_number":  integer("Ordering key of the day. Unique within the program, not necessarily contiguous; used to match days on update.", bound(0), nil),
		"name":        nullableStr("Day name, e.g. \"Upper Body\"."),
		"description": nullableStr("What the day focuses on."),
		"blocks":      array("Blocks in the day, ordered by order_index.", blockSchema(update), 0, 0),
	}
	required := []string{"day_number", "blocks"}
	if update {
		required = []string{"day_number"}
	}
	return obj(required, props, "")
}

// ProgramInputSchema describes the create-program payload.
func ProgramInputSchema() map[string]any {
	return obj([]string{"name", "days"}, map[string]any{
		"name":        str("Program name, e.g. \"8-Week Strength\"."),
		"description": nullableStr("Summary of the program's goals and approach."),
		"days":        array("Training days ordered by day_number.", daySchema(false), 0, 0),
	}, "The user's program, broken down into days, blocks and exercises.")
}

// ProgramUpdateSchema describes the update-program payload.
func ProgramUpdateSchema() map[string]any {
	return obj(nil, map[string]any{
		"name":        str("New program name."),
		"description": nullableStr("New description; null clears it."),
		"days":        array("Days to change. Matched by day_number; unknown day numbers are created.", daySchema(true), 0, 0),
	}, "Partial program. Omitted fields are left unchanged. Days, blocks and exercises are matched by their position keys (day_number, order_index) and created when no match exists.")
}

// BlueprintInputSchema describes the store-blueprint payload.
func BlueprintInputSchema() map[string]any {
	category := obj([]string{"category", "set_range", "rep_range", "intensity_guideline"}, map[string]any{
		"category":            str("Exercise category, e.g. \"Horizontal push\"."),
		"set_range":           str("Set range, e.g. \"3-4\"."),
		"rep_range":           str("Rep range, e.g. \"8-12\"."),
		"intensity_guideline": str("Intensity guidance, e.g. \"RPE 7-8\" or \"70% 1RM\"."),
		"notes":               str("Optional notes."),
	}, "")
	session := obj([]string{"name", "description", "exercise_categories"}, map[string]any{
		"name":                str("Session template name."),
		"description":         str("Session focus."),
		"exercise_categories": array("Exercise categories with ranges rather than fixed prescriptions.", category, 1, 0),
		"notes":               str("Optional notes."),
	}, "")
	phase := obj([]string{"name", "weeks", "description", "session_templates", "progression_strategy"}, map[string]any{
		"name":                 str("Phase name, e.g. \"Accumulation\"."),
		"weeks":                integer("Phase length in weeks.", bound(1), nil),
		"description":          str("Phase goals."),
		"session_templates":    array("Session templates run during the phase.", session, 1, 0),
		"progression_strategy": str("How load or volume progresses across the phase."),
		"notes":                str("Optional notes."),
	}, "")
	return obj(
		[]string{"coach_id", "name", "target_audience", "duration_weeks", "sessions_per_week", "fitness_goal", "equipment_level", "description", "phases"},
		map[string]any{
			"coach_id":          str("Owning coach identifier."),
			"name":              str("Blueprint name."),
			"target_audience":   str("Who the blueprint is designed for."),
			"duration_weeks":    integer("Total duration in weeks.", bound(1), bound(52)),
			"sessions_per_week": integer("Training sessions per week.", bound(1), bound(7)),
			"fitness_goal":      str("Primary goal, e.g. hypertrophy or endurance."),
			"equipment_level":   str("Equipment required, e.g. full gym or bodyweight."),
			"description":       str("Overview of the methodology."),
			"phases":            array("Training phases in order.", phase, 1, 0),
			"notes":             str("Optional notes."),
		},
		"A client-agnostic program template.",
	)
}

// ProgressAnalysisInputSchema describes the store-progress-analysis payload.
func ProgressAnalysisInputSchema() map[string]any {
	strength := obj([]string{"exercise", "start_value", "current_value", "unit"}, map[string]any{
		"exercise":      str("Exercise measured."),
		"start_value":   num("Value at the start of the timeframe.", nil, nil),
		"current_value": num("Current value.", nil, nil),
		"unit":          str("Unit, e.g. kg or reps."),
		"notes":         str("Optional notes."),
	}, "")
	body := obj([]string{"metric", "start_value", "current_value", "unit"}, map[string]any{
		"metric":        enum("Body-composition metric.", "weight", "body_fat", "chest", "waist", "hips", "arms", "legs", "other"),
		"start_value":   num("Value at the start of the timeframe.", nil, nil),
		"current_value": num("Current value.", nil, nil),
		"unit":          str("Unit, e.g. kg, % or cm."),
	}, "")
	adherence := obj([]string{"planned_sessions", "completed_sessions", "adherence_rate"}, map[string]any{
		"planned_sessions":   integer("Sessions planned in the timeframe.", bound(0), nil),
		"completed_sessions": integer("Sessions completed.", bound(0), nil),
		"adherence_rate":     num("Completion percentage.", bound(0), bound(100)),
		"factors":            array("Factors that affected adherence.", str(""), 0, 0),
	}, "")
	return obj(
		[]string{"client_id", "program_id", "timeframe", "adherence", "overall_assessment", "actionable_recommendations"},
		map[string]any{
			"client_id":                  str("Client identifier."),
			"program_id":                 str("Program identifier."),
			"timeframe":                  enum("Period analysed.", spotr.Timeframe1Week, spotr.Timeframe2Weeks, spotr.Timeframe4Weeks, spotr.Timeframe8Weeks, spotr.TimeframeEntireProgram),
			"strength_progress":          array("Strength changes per exercise.", strength, 0, 0),
			"body_composition_changes":   array("Body-composition changes.", body, 0, 0),
			"adherence":                  adherence,
			"overall_assessment":         str("Summary of the client's progress."),
			"actionable_recommendations": array("Concrete next steps.", str(""), 1, 5),
		},
		"Analysis of a client's progress on a program.",
	)
}

// EvaluationInputSchema describes the evaluate-program payload.
func EvaluationInputSchema() map[string]any {
	score := func(d string) map[string]any { return integer(d, bound(0), bound(100)) }
	scores := obj(
		[]string{"overall", "structure_and_progression", "exercise_selection", "volume_and_intensity", "recovery", "specificity", "practicality"},
		map[string]any{
			"overall":                   score("Overall quality."),
			"structure_and_progression": score("Periodisation and progression."),
			"exercise_selection":        score("Appropriateness of exercises."),
			"volume_and_intensity":      score("Training dose."),
			"recovery":                  score("Recovery provision."),
			"specificity":               score("Alignment with the goal."),
			"practicality":              score("Feasibility for the client."),
		}, "Scores from 0 to 100.")
	return obj(
		[]string{"entity_type", "entity_id", "evaluation_purpose", "scores", "strengths"},
		map[string]any{
			"entity_type":             enum("What is evaluated.", "program", "blueprint"),
			"entity_id":               str("Identifier of the program or blueprint."),
			"evaluation_purpose":      enum("Why the evaluation is made.", spotr.EvaluationPurposes...),
			"client_id":               str("Client the evaluation is made for, when relevant."),
			"scores":                  scores,
			"strengths":               array("What works well.", str(""), 1, 0),
			"weaknesses":              array("What could be better.", str(""), 0, 0),
			"improvement_suggestions": array("Suggested changes.", str(""), 0, 0),
			"suitability_conclusion":  str("Conclusion on suitability for the client."),
		},
		"Structured evaluation of a program or blueprint.",
	)
}
