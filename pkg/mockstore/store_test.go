package mockstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), "https://app.spotr.example/", "test-secret")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func writeFixture(t *testing.T, s *Store, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), name), data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }

func strengthInput() *spotr.ProgramInput {
	emom := spotr.FormatEMOM
	return &spotr.ProgramInput{
		Name: "8-Week Strength",
		Days: []spotr.DayInput{
			{
				DayNumber: intp(1),
				Name:      strp("Upper Body"),
				Blocks: []spotr.BlockInput{{
					OrderIndex: intp(0),
					Exercises: []spotr.ExerciseInput{
						{OrderIndex: intp(0), ExerciseName: "Bench Press", ModifiableParameters: map[string]any{"sets": 3, "reps": "8-10"}},
						{OrderIndex: intp(1), ExerciseName: "Row", Notes: strp("pause at the top")},
					},
				}},
			},
			{
				DayNumber: intp(3),
				Blocks: []spotr.BlockInput{{
					OrderIndex:       intp(0),
					FormatType:       &emom,
					FormatParameters: json.RawMessage(`{"time":12,"time_units":"mins"}`),
					Exercises:        []spotr.ExerciseInput{{OrderIndex: intp(0), ExerciseName: "Burpee"}},
				}},
			},
		},
	}
}

func TestNewSeedsDataDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "mock-data")
	if _, err := New(dir, "", ""); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, name := range append(dataFiles, movementsFile) {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to be seeded: %v", name, err)
		}
	}
}

func TestMovements(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	lib, err := s.FetchAllMovements(ctx)
	if err != nil {
		t.Fatalf("FetchAllMovements failed: %v", err)
	}
	if len(lib) != len(spotr.MuscleGroups) || lib.Count() == 0 {
		t.Fatalf("unexpected library: %d groups, %d movements", len(lib), lib.Count())
	}

	legs, err := s.FetchMovementsByGroup(ctx, "legs")
	if err != nil || len(legs) != len(lib[spotr.Legs]) {
		t.Fatalf("FetchMovementsByGroup returned %d, %v", len(legs), err)
	}
	if _, err := s.FetchMovementsByGroup(ctx, "Glutes"); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found for unknown group, got %v", err)
	}

	found, err := s.SearchMovements(ctx, spotr.MovementQuery{Query: "SQUAT"})
	if err != nil {
		t.Fatalf("SearchMovements failed: %v", err)
	}
	if len(found) != 2 || found[0].MuscleGroup != spotr.Legs {
		t.Fatalf("unexpected search result: %#v", found)
	}

	limited, err := s.SearchMovements(ctx, spotr.MovementQuery{MuscleGroup: "Chest", Limit: intp(1)})
	if err != nil || len(limited) != 1 || limited[0].MuscleGroup != spotr.Chest {
		t.Fatalf("unexpected limited result: %#v, %v", limited, err)
	}
}

func TestMovementsRejectUnknownGroupTable(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed := "[[Glutes]]\nname = \"Hip Thrust\"\nvariation = \"Barbell\"\nclient_demo = \"x\"\n"
	if err := os.WriteFile(filepath.Join(s.Dir(), movementsFile), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := s.FetchAllMovements(context.Background()); err == nil || !strings.Contains(err.Error(), "Glutes") {
		t.Fatalf("expected unknown group error, got %v", err)
	}
}

func TestCreateThenFetchPreservesInput(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}
	if !strings.HasPrefix(created.ID, "program-") || created.CreatedAt == "" {
		t.Fatalf("expected identifier and timestamps, got %#v", created)
	}

	first, err := s.FetchProgram(ctx, created.ID)
	if err != nil {
		t.Fatalf("FetchProgram failed: %v", err)
	}
	second, err := s.FetchProgram(ctx, created.ID)
	if err != nil {
		t.Fatalf("FetchProgram failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("consecutive fetches must return the same program")
	}

	if first.Name != "8-Week Strength" || len(first.Days) != 2 {
		t.Fatalf("unexpected program: %#v", first)
	}
	day, ok := first.Day(1)
	if !ok || *day.Name != "Upper Body" {
		t.Fatalf("day 1 missing or renamed: %#v", day)
	}
	bench, _ := day.Blocks[0].Exercise(0)
	if bench.ExerciseName != "Bench Press" || bench.ModifiableParameters["reps"] != "8-10" || bench.ModifiableParameters["sets"] != float64(3) {
		t.Fatalf("unexpected exercise: %#v", bench)
	}
	conditioning, _ := first.Day(3)
	emom, ok := conditioning.Blocks[0].FormatParameters.(spotr.EMOMParameters)
	if !ok || *emom.Time != 12 {
		t.Fatalf("expected EMOM parameters, got %#v", conditioning.Blocks[0].FormatParameters)
	}

	summaries, err := s.FetchAllPrograms(ctx)
	if err != nil || len(summaries) != 1 || summaries[0].ID != created.ID {
		t.Fatalf("unexpected summaries: %#v, %v", summaries, err)
	}
}

func TestCreateProgramRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	in := strengthInput()
	in.Days[1].DayNumber = intp(1)

	_, err := s.CreateProgram(context.Background(), in)
	if !schema.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	programs, _ := s.FetchAllPrograms(context.Background())
	if len(programs) != 0 {
		t.Fatalf("invalid program must not be stored, found %d", len(programs))
	}
}

func TestUpdateMergesByPosition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	update := &spotr.ProgramUpdate{
		Description: spotr.Some("Block periodised"),
		Days: []spotr.DayUpdate{
			{
				DayNumber: intp(1),
				Blocks: []spotr.BlockUpdate{{
					OrderIndex: intp(0),
					Exercises: []spotr.ExerciseUpdate{
						{OrderIndex: intp(1), Notes: spotr.Null[string]()},
						{OrderIndex: intp(2), ExerciseName: strp("Face Pull")},
					},
				}},
			},
			{DayNumber: intp(2), Name: spotr.Some("Rest")},
		},
	}
	updated, err := s.UpdateProgram(ctx, created.ID, update)
	if err != nil {
		t.Fatalf("UpdateProgram failed: %v", err)
	}

	if updated.Name != created.Name || *updated.Description != "Block periodised" {
		t.Fatalf("unexpected top-level fields: %#v", updated)
	}
	if len(updated.Days) != 3 || updated.Days[1].DayNumber != 2 || *updated.Days[1].Name != "Rest" {
		t.Fatalf("expected inserted day 2 in order, got %#v", updated.Days)
	}
	day, _ := updated.Day(1)
	if *day.Name != "Upper Body" {
		t.Fatal("unnamed day fields must be unchanged")
	}
	exercises := day.Blocks[0].Exercises
	if len(exercises) != 3 || exercises[0].ModifiableParameters["reps"] != "8-10" {
		t.Fatalf("unexpected exercises: %#v", exercises)
	}
	if exercises[1].ExerciseName != "Row" || exercises[1].Notes != nil {
		t.Fatalf("expected notes cleared on Row, got %#v", exercises[1])
	}
	if exercises[2].ExerciseName != "Face Pull" || exercises[2].ID == "" {
		t.Fatalf("expected Face Pull inserted, got %#v", exercises[2])
	}

	fetched, err := s.FetchProgram(ctx, created.ID)
	if err != nil || !reflect.DeepEqual(fetched.Days, updated.Days) {
		t.Fatalf("update was not persisted: %v", err)
	}
}

func TestEmptyUpdateChangesNothing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	updated, err := s.UpdateProgram(ctx, created.ID, &spotr.ProgramUpdate{})
	if err != nil {
		t.Fatalf("UpdateProgram failed: %v", err)
	}
	if updated.Name != created.Name || !reflect.DeepEqual(updated.Description, created.Description) || !reflect.DeepEqual(updated.Days, created.Days) {
		t.Fatalf("expected the program unchanged, got %#v", updated)
	}
}

func TestUpdateFormatChange(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	circuit := spotr.FormatCircuit
	updated, err := s.UpdateProgram(ctx, created.ID, &spotr.ProgramUpdate{Days: []spotr.DayUpdate{{
		DayNumber: intp(3),
		Blocks: []spotr.BlockUpdate{{
			OrderIndex:       intp(0),
			FormatType:       spotr.Some(circuit),
			FormatParameters: json.RawMessage(`{"rounds":4}`),
		}},
	}}})
	if err != nil {
		t.Fatalf("UpdateProgram failed: %v", err)
	}
	day, _ := updated.Day(3)
	params, ok := day.Blocks[0].FormatParameters.(spotr.CircuitParameters)
	if !ok || *params.Rounds != 4 {
		t.Fatalf("expected circuit parameters, got %#v", day.Blocks[0].FormatParameters)
	}
	if day.Blocks[0].Exercises[0].ExerciseName != "Burpee" {
		t.Fatal("exercises must survive a format change")
	}

	_, err = s.UpdateProgram(ctx, created.ID, &spotr.ProgramUpdate{Days: []spotr.DayUpdate{{
		DayNumber: intp(3),
		Blocks:    []spotr.BlockUpdate{{OrderIndex: intp(0), FormatParameters: json.RawMessage(`{"time":5}`)}},
	}}})
	if !schema.IsValidationError(err) {
		t.Fatalf("expected parameters checked against stored circuit format, got %v", err)
	}
}

func TestUpdateRejectsUnnamedNewExercise(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	_, err = s.UpdateProgram(ctx, created.ID, &spotr.ProgramUpdate{
		Name: strp("Renamed"),
		Days: []spotr.DayUpdate{{
			DayNumber: intp(1),
			Blocks: []spotr.BlockUpdate{{
				OrderIndex: intp(0),
				Exercises:  []spotr.ExerciseUpdate{{OrderIndex: intp(9), Notes: spotr.Some("new")}},
			}},
		}},
	})
	var vErr *schema.ValidationError
	if !errors.As(err, &vErr) || vErr.Fields[0].Field != "update.days[0].blocks[0].exercises[0].exercise_name" {
		t.Fatalf("expected exercise_name validation error, got %v", err)
	}

	fetched, _ := s.FetchProgram(ctx, created.ID)
	if fetched.Name != "8-Week Strength" {
		t.Fatal("a rejected update must not be persisted")
	}
}

func TestDeleteProgram(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	if err := s.DeleteProgram(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProgram failed: %v", err)
	}
	if _, err := s.FetchProgram(ctx, created.ID); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteProgram(ctx, created.ID); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := s.UpdateProgram(ctx, "does-not-exist", &spotr.ProgramUpdate{Name: strp("x")}); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func blueprintInput() *spotr.BlueprintInput {
	return &spotr.BlueprintInput{
		CoachID:         "coach-1",
		Name:            "Hypertrophy Base",
		TargetAudience:  "Intermediate lifters",
		DurationWeeks:   8,
		SessionsPerWeek: 2,
		FitnessGoal:     "hypertrophy",
		EquipmentLevel:  "full gym",
		Description:     "Volume first, then intensity.",
		Phases: []spotr.Phase{{
			Name:                "Accumulation",
			Weeks:               4,
			Description:         "Build work capacity.",
			ProgressionStrategy: "Add one set per week.",
			SessionTemplates: []spotr.SessionTemplate{
				{Name: "Push", Description: "Chest and shoulders", ExerciseCategories: []spotr.ExerciseCategory{
					{Category: "Horizontal push", SetRange: "3-4", RepRange: "8-12", IntensityGuideline: "RPE 7-8"},
				}},
				{Name: "Pull", Description: "Back and arms", ExerciseCategories: []spotr.ExerciseCategory{
					{Category: "Vertical pull", SetRange: "3-4", RepRange: "6-10", IntensityGuideline: "RPE 8"},
					{Category: "Curl", SetRange: "2-3", RepRange: "10-15", IntensityGuideline: "RPE 9"},
				}},
			},
		}},
	}
}

func TestBlueprints(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	writeFixture(t, s, clientsFile, []map[string]any{{"id": "client-1", "name": "Sam"}})

	bp, err := s.CreateBlueprint(ctx, blueprintInput())
	if err != nil {
		t.Fatalf("CreateBlueprint failed: %v", err)
	}
	list, err := s.FetchAllBlueprints(ctx)
	if err != nil || len(list) != 1 || list[0].Name != "Hypertrophy Base" {
		t.Fatalf("unexpected blueprints: %#v, %v", list, err)
	}

	p, err := s.CreateProgramFromBlueprint(ctx, bp.ID, &spotr.BlueprintProgramInput{ClientID: "client-1", ProgramName: "Sam's Hypertrophy"})
	if err != nil {
		t.Fatalf("CreateProgramFromBlueprint failed: %v", err)
	}
	if p.MemberID != "client-1" || p.CoachID != "coach-1" || len(p.Days) != 2 {
		t.Fatalf("unexpected program: %#v", p)
	}
	if !strings.Contains(*p.Description, "Sam") || len(p.Days[1].Blocks[0].Exercises) != 2 {
		t.Fatalf("unexpected personalisation: %#v", p)
	}
	if _, err := s.FetchProgram(ctx, p.ID); err != nil {
		t.Fatalf("program from blueprint not stored: %v", err)
	}

	_, err = s.CreateProgramFromBlueprint(ctx, bp.ID, &spotr.BlueprintProgramInput{ClientID: "ghost", ProgramName: "x"})
	if !spotr.IsNotFound(err) {
		t.Fatalf("expected unknown client to be not found, got %v", err)
	}
	if _, err := s.FetchBlueprint(ctx, "nope"); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDocuments(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	writeFixture(t, s, coachesFile, []map[string]any{
		{"id": "coach-1", "name": "Alex", "style": map[string]any{"tone": "direct"}},
		{"id": "coach-2", "name": "Kim"},
	})
	writeFixture(t, s, progressFile, []map[string]any{{"client_id": "client-1", "program_id": "program-1", "sessions": 12}})

	coach, err := s.FetchCoach(ctx, "coach-1")
	if err != nil || coach["name"] != "Alex" {
		t.Fatalf("unexpected coach: %#v, %v", coach, err)
	}
	style, err := s.FetchCoachStyle(ctx, "coach-1")
	if err != nil || style["tone"] != "direct" || style["id"] != "coach-1" {
		t.Fatalf("unexpected style: %#v, %v", style, err)
	}
	if _, err := s.FetchCoachStyle(ctx, "coach-2"); !spotr.IsNotFound(err) {
		t.Fatalf("expected missing style to be not found, got %v", err)
	}
	progress, err := s.FetchClientProgress(ctx, "client-1", "program-1")
	if err != nil || progress["sessions"] != float64(12) {
		t.Fatalf("unexpected progress: %#v, %v", progress, err)
	}
	if _, err := s.FetchClient(ctx, "client-1"); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnalysesAndEvaluations(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	analysis, err := s.CreateProgressAnalysis(ctx, &spotr.ProgressAnalysisInput{
		ClientID:                  "client-1",
		ProgramID:                 "program-1",
		Timeframe:                 spotr.Timeframe4Weeks,
		Adherence:                 &spotr.Adherence{PlannedSessions: 12, CompletedSessions: 10, AdherenceRate: 83.3},
		OverallAssessment:         "Steady progress.",
		ActionableRecommendations: []string{"Add a deload in week 5"},
	})
	if err != nil {
		t.Fatalf("CreateProgressAnalysis failed: %v", err)
	}
	got, err := s.FetchProgressAnalysis(ctx, analysis.ID)
	if err != nil || got.OverallAssessment != "Steady progress." {
		t.Fatalf("unexpected analysis: %#v, %v", got, err)
	}

	_, err = s.CreateEvaluation(ctx, &spotr.EvaluationInput{EntityType: "program", EntityID: "program-1", EvaluationPurpose: "general_quality"})
	if !schema.IsValidationError(err) {
		t.Fatalf("expected validation error for missing scores, got %v", err)
	}
	eval, err := s.CreateEvaluation(ctx, &spotr.EvaluationInput{
		EntityType:        "program",
		EntityID:          "program-1",
		EvaluationPurpose: "general_quality",
		Scores:            &spotr.EvaluationScores{Overall: 82, StructureAndProgression: 80, ExerciseSelection: 85, VolumeAndIntensity: 78, Recovery: 70, Specificity: 90, Practicality: 88},
		Strengths:         []string{"Clear progression"},
	})
	if err != nil {
		t.Fatalf("CreateEvaluation failed: %v", err)
	}
	if _, err := s.FetchEvaluation(ctx, eval.ID); err != nil {
		t.Fatalf("FetchEvaluation failed: %v", err)
	}
	if _, err := s.FetchEvaluation(ctx, "missing"); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestShareLinks(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	link, err := s.CreateShareLink(ctx, &spotr.ShareLinkInput{EntityType: "program", EntityID: created.ID})
	if err != nil {
		t.Fatalf("CreateShareLink failed: %v", err)
	}
	prefix := "https://app.spotr.example/share/program/" + created.ID + "?token="
	if !strings.HasPrefix(link.ShareURL, prefix) || len(link.AccessCode) != 8 {
		t.Fatalf("unexpected link: %#v", link)
	}
	expires, err := time.Parse(time.RFC3339, link.ExpiresAt)
	if err != nil || expires.Sub(time.Now()) < 29*24*time.Hour {
		t.Fatalf("expected default 30 day expiry, got %s", link.ExpiresAt)
	}

	claims, err := s.ResolveShare(strings.TrimPrefix(link.ShareURL, prefix))
	if err != nil {
		t.Fatalf("ResolveShare failed: %v", err)
	}
	if claims.EntityID != created.ID || claims.AccessCode != link.AccessCode {
		t.Fatalf("unexpected claims: %#v", claims)
	}

	if _, err := s.CreateShareLink(ctx, &spotr.ShareLinkInput{EntityType: "blueprint", EntityID: "missing"}); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found for missing entity, got %v", err)
	}
	if _, err := s.ResolveShare("not-a-token"); err == nil {
		t.Fatal("expected invalid token error")
	}
}

func TestShareLinkExpiry(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateProgram(ctx, strengthInput())
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	s.now = func() time.Time { return time.Now().AddDate(0, 0, -10) }
	link, err := s.CreateShareLink(ctx, &spotr.ShareLinkInput{EntityType: "program", EntityID: created.ID, ExpiresInDays: intp(1)})
	if err != nil {
		t.Fatalf("CreateShareLink failed: %v", err)
	}
	token := link.ShareURL[strings.Index(link.ShareURL, "token=")+len("token="):]
	if _, err := s.ResolveShare(token); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expired token, got %v", err)
	}
}
