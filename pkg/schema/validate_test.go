package schema

import (
	"errors"
	"strings"
	"testing"
)

const strengthProgram = `{
	"program": {
		"name": "8-Week Strength",
		"description": null,
		"days": [{
			"day_number": 1,
			"blocks": [{
				"order_index": 0,
				"format_type": "standard",
				"exercises": [{
					"order_index": 0,
					"exercise_name": "Bench Press",
					"modifiable_parameters": {"sets": 3, "reps": "8-10"}
				}]
			}]
		}]
	}
}`

func parseErr(t *testing.T, raw string, dst any) *ValidationError {
	t.Helper()
	err := Parse([]byte(raw), dst)
	if err == nil {
		t.Fatalf("expected validation error for %s", raw)
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return vErr
}

func hasField(vErr *ValidationError, field, fragment string) bool {
	for _, f := range vErr.Fields {
		if f.Field == field && strings.Contains(f.Message, fragment) {
			return true
		}
	}
	return false
}

func TestParseCreateProgramValid(t *testing.T) {
	t.Parallel()

	var args CreateProgramArgs
	if err := Parse([]byte(strengthProgram), &args); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if args.Program.Name != "8-Week Strength" {
		t.Fatalf("unexpected name %q", args.Program.Name)
	}
	ex := args.Program.Days[0].Blocks[0].Exercises[0]
	if ex.ExerciseName != "Bench Press" || ex.ModifiableParameters["reps"] != "8-10" {
		t.Fatalf("unexpected exercise %+v", ex)
	}
}

func TestParseCreateProgramMissingFields(t *testing.T) {
	t.Parallel()

	raw := `{"program": {"days": [{"blocks": [{"order_index": 0, "exercises": [{"order_index": 0}]}]}]}}`
	vErr := parseErr(t, raw, &CreateProgramArgs{})

	for _, field := range []string{
		"program.name",
		"program.days[0].day_number",
		"program.days[0].blocks[0].exercises[0].exercise_name",
	} {
		if !hasField(vErr, field, "is required") {
			t.Fatalf("expected %s to be required, got %v", field, vErr)
		}
	}
}

func TestParseCreateProgramMissingProgram(t *testing.T) {
	t.Parallel()

	vErr := parseErr(t, `{}`, &CreateProgramArgs{})
	if !hasField(vErr, "program", "is required") {
		t.Fatalf("unexpected errors: %v", vErr)
	}
}

func TestParseRejectsInvalidFormatType(t *testing.T) {
	t.Parallel()

	raw := strings.Replace(strengthProgram, `"standard"`, `"crossfit"`, 1)
	vErr := parseErr(t, raw, &CreateProgramArgs{})
	if !hasField(vErr, "program.days[0].blocks[0].format_type", "must be one of: standard, circuit") {
		t.Fatalf("unexpected errors: %v", vErr)
	}
}

func TestParseRejectsDuplicatePositionKeys(t *testing.T) {
	t.Parallel()

	raw := `{"program": {"name": "Dup", "days": [
		{"day_number": 1, "blocks": []},
		{"day_number": 1, "blocks": [
			{"order_index": 0, "exercises": []},
			{"order_index": 0, "exercises": []}
		]}
	]}}`
	vErr := parseErr(t, raw, &CreateProgramArgs{})
	if !hasField(vErr, "program.days[1].day_number", "duplicates days[0]") {
		t.Fatalf("expected duplicate day error, got %v", vErr)
	}
	if !hasField(vErr, "program.days[1].blocks[1].order_index", "duplicates blocks[0]") {
		t.Fatalf("expected duplicate block error, got %v", vErr)
	}
}

func TestParseFormatParametersByType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		format   string
		params   string
		field    string
		fragment string
	}{
		{"emom missing", "emom", "null", "format_parameters", "is required for format_type emom"},
		{"emom unknown key", "emom", `{"time": 12, "laps": 2}`, "format_parameters.laps", "not a recognised field"},
		{"emom zero time", "emom", `{"time": 0}`, "format_parameters.time", "greater than 0"},
		{"circuit rounds", "circuit", `{"rounds": 0}`, "format_parameters.rounds", "at least 1"},
		{"circuit type", "circuit", `{"rounds": "three"}`, "format_parameters.rounds", "must be an integer"},
		{"tabata missing rest", "tabata", `{"work": 20, "rounds": 8}`, "format_parameters.rest", "is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			raw := `{"program": {"name": "P", "days": [{"day_number": 1, "blocks": [{"order_index": 0, "format_type": "` +
				tc.format + `", "format_parameters": ` + tc.params + `, "exercises": []}]}]}}`
			vErr := parseErr(t, raw, &CreateProgramArgs{})
			field := "program.days[0].blocks[0]." + tc.field
			if !hasField(vErr, field, tc.fragment) {
				t.Fatalf("expected %s %q, got %v", field, tc.fragment, vErr)
			}
		})
	}
}

func TestParseAcceptsShapedAndOpenParameters(t *testing.T) {
	t.Parallel()

	raw := `{"program": {"name": "P", "days": [{"day_number": 1, "blocks": [
		{"order_index": 0, "format_type": "tabata", "format_parameters": {"work": 20, "rest": 10, "rounds": 8, "time_units": "seconds"}, "exercises": []},
		{"order_index": 1, "format_type": "complex", "format_parameters": {"sequence": "clean > front squat > jerk"}, "exercises": []},
		{"order_index": 2, "name": "Speed Work", "exercises": [
			{"order_index": 0, "exercise_name": "Run", "modifiable_parameters": {"distance": 400, "distance_units": "m", "rest": 90, "rest_units": "s"}}
		]}
	]}]}}`
	var args CreateProgramArgs
	if err := Parse([]byte(raw), &args); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
}

func TestParseModifiableParameters(t *testing.T) {
	t.Parallel()

	raw := strings.Replace(strengthProgram, `{"sets": 3, "reps": "8-10"}`, `{"sets": 0, "reps": 2.5, "time_units": 30}`, 1)
	vErr := parseErr(t, raw, &CreateProgramArgs{})
	base := "program.days[0].blocks[0].exercises[0].modifiable_parameters."
	for _, field := range []string{"sets", "reps", "time_units"} {
		if !hasField(vErr, base+field, "must") {
			t.Fatalf("expected error on %s, got %v", field, vErr)
		}
	}
}

func TestDecodeRejectsUnknownAndMistypedFields(t *testing.T) {
	t.Parallel()

	vErr := parseErr(t, `{"programId": "p1", "extra": true}`, &ProgramIDArgs{})
	if !hasField(vErr, "extra", "not a recognised field") {
		t.Fatalf("unexpected errors: %v", vErr)
	}

	vErr = parseErr(t, `{"programId": 42}`, &ProgramIDArgs{})
	if !hasField(vErr, "programId", "must be a string") {
		t.Fatalf("unexpected errors: %v", vErr)
	}
	vErr = parseErr(t, `{"program": {"name": "P", "days": [{"day_number": 1, "blocks": [{"order_index": 0, "tempo": "3-1-1", "exercises": []}]}]}}`, &CreateProgramArgs{})
	if !hasField(vErr, "program.days[0].blocks[0].tempo", "not a recognised field") {
		t.Fatalf("expected the nested path of the unknown key, got %v", vErr)
	}

	vErr = parseErr(t, `{"programId": "p1"} junk`, &ProgramIDArgs{})
	if !hasField(vErr, "", "unexpected data after the JSON value") {
		t.Fatalf("expected trailing data to be rejected, got %v", vErr)
	}

	vErr = parseErr(t, `{"programId": "p1"} {"programId": "p2"}`, &ProgramIDArgs{})
	if !hasField(vErr, "", "unexpected data after the JSON value") {
		t.Fatalf("expected a second value to be rejected, got %v", vErr)
	}
}

func TestParseBlankIdentifier(t *testing.T) {
	t.Parallel()

	vErr := parseErr(t, `{"programId": "   "}`, &ProgramIDArgs{})
	if !hasField(vErr, "programId", "is required") {
		t.Fatalf("unexpected errors: %v", vErr)
	}
}

func TestParseUpdateProgram(t *testing.T) {
	t.Parallel()

	raw := `{"programId": "p1", "update": {"description": null, "days": [{"day_number": 2, "blocks": [{"order_index": 0, "exercises": [{"order_index": 1, "notes": "slow eccentric"}]}]}]}}`
	var args UpdateProgramArgs
	if err := Parse([]byte(raw), &args); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !args.Update.Description.Set || args.Update.Description.Value != nil {
		t.Fatalf("expected explicit null description, got %+v", args.Update.Description)
	}
	ex := args.Update.Days[0].Blocks[0].Exercises[0]
	if ex.ExerciseName != nil || !ex.Notes.Set || *ex.Notes.Value != "slow eccentric" {
		t.Fatalf("unexpected exercise update %+v", ex)
	}
}

func TestParseUpdateProgramRules(t *testing.T) {
	t.Parallel()

	var empty UpdateProgramArgs
	if err := Parse([]byte(`{"programId": "p1", "update": {}}`), &empty); err != nil {
		t.Fatalf("expected an empty update to be accepted, got %v", err)
	}

	vErr := parseErr(t, `{"programId": "p1", "update": {"days": [{"name": "Legs"}]}}`, &UpdateProgramArgs{})
	if !hasField(vErr, "update.days[0].day_number", "is required") {
		t.Fatalf("expected missing position key error, got %v", vErr)
	}

	vErr = parseErr(t, `{"programId": "p1", "update": {"days": [{"day_number": 1, "blocks": [{"order_index": 0, "format_type": "amrap"}]}]}}`, &UpdateProgramArgs{})
	if !hasField(vErr, "update.days[0].blocks[0].format_parameters", "is required for format_type amrap") {
		t.Fatalf("expected amrap parameters error, got %v", vErr)
	}

	vErr = parseErr(t, `{"programId": "p1", "update": {"days": [{"day_number": 1, "blocks": [{"order_index": 0, "format_type": "yoga"}]}]}}`, &UpdateProgramArgs{})
	if !hasField(vErr, "update.days[0].blocks[0].format_type", "must be one of") {
		t.Fatalf("expected format type error, got %v", vErr)
	}
}

func TestParseNumericRanges(t *testing.T) {
	t.Parallel()

	vErr := parseErr(t, `{"entityType": "program", "entityId": "p1", "expiresInDays": 400}`, &ShareLinkArgs{})
	if !hasField(vErr, "expiresInDays", "at most 365") {
		t.Fatalf("unexpected errors: %v", vErr)
	}

	vErr = parseErr(t, `{"limit": 0}`, &SearchMovementsArgs{})
	if !hasField(vErr, "limit", "at least 1") {
		t.Fatalf("unexpected errors: %v", vErr)
	}

	vErr = parseErr(t, `{"muscleGroup": "Glutes"}`, &SearchMovementsArgs{})
	if !hasField(vErr, "muscleGroup", "must be one of: Chest, Back") {
		t.Fatalf("unexpected errors: %v", vErr)
	}
}

func TestParseEvaluationScores(t *testing.T) {
	t.Parallel()

	raw := `{"evaluation": {
		"entity_type": "program", "entity_id": "p1", "evaluation_purpose": "general_quality",
		"scores": {"overall": 101, "structure_and_progression": 80, "exercise_selection": 80,
			"volume_and_intensity": 80, "recovery": 80, "specificity": 80, "practicality": 80},
		"strengths": []
	}}`
	vErr := parseErr(t, raw, &EvaluateProgramArgs{})
	if !hasField(vErr, "evaluation.scores.overall", "at most 100") {
		t.Fatalf("expected score range error, got %v", vErr)
	}
	if !hasField(vErr, "evaluation.strengths", "at least 1 item") {
		t.Fatalf("expected strengths error, got %v", vErr)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: []FieldError{
		{Field: "program.name", Message: "is required"},
		{Message: "malformed JSON at offset 3"},
	}}
	want := "invalid arguments: program.name is required; malformed JSON at offset 3"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	if !IsValidationError(err) {
		t.Fatal("expected IsValidationError to match")
	}
}
