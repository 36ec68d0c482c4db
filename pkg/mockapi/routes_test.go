package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/misfitdev/spotr-mcp/pkg/logging"
	"github.com/misfitdev/spotr-mcp/pkg/mockstore"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *mockstore.Store) {
	t.Helper()
	store, err := mockstore.New(t.TempDir(), "https://app.spotr.example", "secret")
	if err != nil {
		t.Fatalf("mockstore.New failed: %v", err)
	}
	return NewRouter(store, "key-123", logging.Discard()), store
}

func doRequest(router http.Handler, method, path, key, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("X-Spotr-Api-Key", key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyIsEnforced(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	if rec := doRequest(router, http.MethodGet, "/api/v1/programs", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/v1/programs", "wrong", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with wrong key, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/v1/programs", "key-123", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(router, http.MethodGet, "/ping", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ping must not require a key, got %d", rec.Code)
	}
}

func TestCreateProgramValidation(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/programs", "key-123", `{"name":"P","days":[{"day_number":1,"blocks":[{"order_index":0,"format_type":"emom","exercises":[]}]}]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if len(body.Fields) == 0 || !strings.HasSuffix(body.Fields[0].Field, "days[0].blocks[0].format_parameters") {
		t.Fatalf("unexpected fields: %s", rec.Body.String())
	}

	rec = doRequest(router, http.MethodPost, "/api/v1/programs", "key-123", `{"name":"P","days":[],"colour":"red"}`)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "colour") {
		t.Fatalf("expected unknown field rejection, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodPost, "/api/v1/programs", "key-123", `{"name":"P","days":[]} trailing`)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "unexpected data") {
		t.Fatalf("expected trailing data rejection, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMovementRoutes(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/movements?muscle_group=core", "key-123", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var lib struct {
		Movements spotr.MovementLibrary `json:"movements"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &lib)
	if len(lib.Movements) != 1 || len(lib.Movements[spotr.Core]) == 0 {
		t.Fatalf("expected only Core movements, got %#v", lib.Movements)
	}

	if rec := doRequest(router, http.MethodGet, "/api/v1/movements/search?limit=abc", "key-123", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/v1/movements/search?limit=500", "key-123", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for out of range limit, got %d", rec.Code)
	}
}

func TestAnalysisPathMustMatchBody(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	body := `{"client_id":"client-2","program_id":"program-1","timeframe":"4_weeks",
		"adherence":{"planned_sessions":8,"completed_sessions":7,"adherence_rate":87.5},
		"overall_assessment":"Good","actionable_recommendations":["Keep going"]}`
	rec := doRequest(router, http.MethodPost, "/api/v1/clients/client-1/programs/program-1/analyses", "key-123", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

// The backend client and the mock API must agree on the REST contract.
func TestClientRoundTrip(t *testing.T) {
	t.Parallel()

	router, store := newTestRouter(t)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	clients := `[{"id":"client-1","name":"Sam"}]`
	if err := os.WriteFile(filepath.Join(store.Dir(), "clients.json"), []byte(clients), 0o644); err != nil {
		t.Fatalf("write clients: %v", err)
	}

	client, err := spotr.NewClientWithConfig(srv.URL, "key-123", srv.Client())
	if err != nil {
		t.Fatalf("NewClientWithConfig failed: %v", err)
	}
	ctx := context.Background()

	day, order, ex := 1, 0, 0
	created, err := client.CreateProgram(ctx, &spotr.ProgramInput{
		Name: "8-Week Strength",
		Days: []spotr.DayInput{{
			DayNumber: &day,
			Blocks: []spotr.BlockInput{{
				OrderIndex: &order,
				Exercises: []spotr.ExerciseInput{{
					OrderIndex:           &ex,
					ExerciseName:         "Bench Press",
					ModifiableParameters: map[string]any{"sets": 3, "reps": "8-10"},
				}},
			}},
		}},
	})
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}

	first, err := client.FetchProgram(ctx, created.ID)
	if err != nil {
		t.Fatalf("FetchProgram failed: %v", err)
	}
	second, err := client.FetchProgram(ctx, created.ID)
	if err != nil {
		t.Fatalf("FetchProgram failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(first, created) {
		t.Fatal("create and repeated fetches must agree")
	}

	updated, err := client.UpdateProgram(ctx, created.ID, &spotr.ProgramUpdate{Description: spotr.Some("Heavy triples")})
	if err != nil {
		t.Fatalf("UpdateProgram failed: %v", err)
	}
	if updated.Name != "8-Week Strength" || *updated.Description != "Heavy triples" || !reflect.DeepEqual(updated.Days, first.Days) {
		t.Fatalf("update changed more than the description: %#v", updated)
	}

	lib, err := client.FetchAllMovements(ctx)
	if err != nil || lib.Count() == 0 {
		t.Fatalf("FetchAllMovements failed: %v", err)
	}
	found, err := client.SearchMovements(ctx, spotr.MovementQuery{Query: "press"})
	if err != nil || len(found) == 0 {
		t.Fatalf("SearchMovements returned %d, %v", len(found), err)
	}

	link, err := client.CreateShareLink(ctx, &spotr.ShareLinkInput{EntityType: "program", EntityID: created.ID})
	if err != nil || !strings.Contains(link.ShareURL, created.ID) {
		t.Fatalf("CreateShareLink returned %#v, %v", link, err)
	}
	token := link.ShareURL[strings.Index(link.ShareURL, "token=")+len("token="):]
	rec := doRequest(router, http.MethodGet, "/api/v1/share/"+token, "key-123", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), created.ID) {
		t.Fatalf("share resolve returned %d: %s", rec.Code, rec.Body.String())
	}

	if err := client.DeleteProgram(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProgram failed: %v", err)
	}
	if _, err := client.FetchProgram(ctx, created.ID); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := client.FetchCoach(ctx, "nobody"); !spotr.IsNotFound(err) {
		t.Fatalf("expected not found coach, got %v", err)
	}
}
