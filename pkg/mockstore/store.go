// Package mockstore implements spotr.Backend over JSON files in a local
// directory. It backs mock mode and the development REST API.
package mockstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/misfitdev/spotr-mcp/pkg/config"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

const (
	coachesFile     = "coaches.json"
	clientsFile     = "clients.json"
	programsFile    = "programs.json"
	blueprintsFile  = "blueprints.json"
	analysesFile    = "analyses.json"
	evaluationsFile = "evaluations.json"
	progressFile    = "progress.json"
	movementsFile   = "movements.toml"
)

var dataFiles = []string{
	coachesFile,
	clientsFile,
	programsFile,
	blueprintsFile,
	analysesFile,
	evaluationsFile,
	progressFile,
}

// Store reads and writes the mock data directory. Every call re-reads the
// files it needs, so edits made by hand are picked up without a restart.
type Store struct {
	dir       string
	webAppURL string
	secret    []byte

	mu  sync.Mutex
	now func() time.Time
}

var _ spotr.Backend = (*Store)(nil)

// New opens dir, creating it and seeding empty data files and the default
// movement library when they are missing.
func New(dir, webAppURL, shareSecret string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("mock data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create mock data directory: %w", err)
	}
	for _, name := range dataFiles {
		if err := seedFile(filepath.Join(dir, name), []byte("[]\n")); err != nil {
			return nil, err
		}
	}
	if err := seedFile(filepath.Join(dir, movementsFile), defaultMovements); err != nil {
		return nil, err
	}

	if webAppURL == "" {
		webAppURL = config.DefaultWebAppURL
	}
	if shareSecret == "" {
		shareSecret = uuid.NewString()
	}
	return &Store{
		dir:       dir,
		webAppURL: webAppURL,
		secret:    []byte(shareSecret),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// NewFromConfig opens the store described by cfg.
func NewFromConfig(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return New(cfg.MockDataDir, cfg.WebAppURL, cfg.ShareSecret)
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func seedFile(path string, contents []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("seed %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readList[T any](s *Store, name string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var out []T
	if len(data) == 0 {
		return []T{}, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func writeList[T any](s *Store, name string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')
	tmp := filepath.Join(s.dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().Format(time.RFC3339)
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func findDocument(docs []spotr.Document, id string) (spotr.Document, bool) {
	for _, d := range docs {
		if docID, _ := d["id"].(string); docID == id {
			return d, true
		}
	}
	return nil, false
}

func (s *Store) document(file, kind, id string) (spotr.Document, error) {
	docs, err := readList[spotr.Document](s, file)
	if err != nil {
		return nil, err
	}
	doc, ok := findDocument(docs, id)
	if !ok {
		return nil, &spotr.NotFoundError{Kind: kind, ID: id}
	}
	return doc, nil
}

func (s *Store) FetchCoach(ctx context.Context, id string) (spotr.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document(coachesFile, "coach", id)
}

// FetchCoachStyle returns the coach's "style" object, tagged with the coach id.
func (s *Store) FetchCoachStyle(ctx context.Context, id string) (spotr.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coach, err := s.document(coachesFile, "coach", id)
	if err != nil {
		return nil, err
	}
	style, ok := coach["style"].(map[string]any)
	if !ok {
		return nil, &spotr.NotFoundError{Kind: "coach style", ID: id}
	}
	out := spotr.Document{"id": id}
	for k, v := range style {
		out[k] = v
	}
	return out, nil
}

func (s *Store) FetchClient(ctx context.Context, id string) (spotr.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document(clientsFile, "client", id)
}

func (s *Store) FetchClientProgress(ctx context.Context, clientID, programID string) (spotr.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := readList[spotr.Document](s, progressFile)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		c, _ := d["client_id"].(string)
		p, _ := d["program_id"].(string)
		if c == clientID && p == programID {
			return d, nil
		}
	}
	return nil, &spotr.NotFoundError{Kind: "progress", ID: clientID + "/" + programID}
}

func (s *Store) FetchAllPrograms(ctx context.Context) ([]spotr.ProgramSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	programs, err := readList[spotr.Program](s, programsFile)
	if err != nil {
		return nil, err
	}
	out := make([]spotr.ProgramSummary, 0, len(programs))
	for i := range programs {
		out = append(out, programs[i].Summary())
	}
	return out, nil
}

func (s *Store) FetchProgram(ctx context.Context, id string) (*spotr.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	programs, err := readList[spotr.Program](s, programsFile)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(programs, func(p spotr.Program) bool { return p.ID == id })
	if i < 0 {
		return nil, &spotr.NotFoundError{Kind: "program", ID: id}
	}
	return &programs[i], nil
}

func (s *Store) CreateProgram(ctx context.Context, in *spotr.ProgramInput) (*spotr.Program, error) {
	if err := schema.Validate(&schema.CreateProgramArgs{Program: in}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	programs, err := readList[spotr.Program](s, programsFile)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	p := programFromInput(in)
	p.ID = newID("program")
	p.CreatedAt = now
	p.UpdatedAt = now

	programs = append(programs, *p)
	if err := writeList(s, programsFile, programs); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) UpdateProgram(ctx context.Context, id string, update *spotr.ProgramUpdate) (*spotr.Program, error) {
	if err := schema.Validate(&schema.UpdateProgramArgs{ProgramID: id, Update: update}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	programs, err := readList[spotr.Program](s, programsFile)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(programs, func(p spotr.Program) bool { return p.ID == id })
	if i < 0 {
		return nil, &spotr.NotFoundError{Kind: "program", ID: id}
	}

	merged := programs[i]
	if err := applyUpdate(&merged, update); err != nil {
		return nil, err
	}
	merged.UpdatedAt = s.timestamp()
	programs[i] = merged
	if err := writeList(s, programsFile, programs); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *Store) DeleteProgram(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	programs, err := readList[spotr.Program](s, programsFile)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(programs, func(p spotr.Program) bool { return p.ID == id })
	if i < 0 {
		return &spotr.NotFoundError{Kind: "program", ID: id}
	}
	programs = append(programs[:i], programs[i+1:]...)
	return writeList(s, programsFile, programs)
}

func (s *Store) FetchAllBlueprints(ctx context.Context) ([]spotr.BlueprintSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blueprints, err := readList[spotr.Blueprint](s, blueprintsFile)
	if err != nil {
		return nil, err
	}
	out := make([]spotr.BlueprintSummary, 0, len(blueprints))
	for i := range blueprints {
		out = append(out, blueprints[i].Summary())
	}
	return out, nil
}

func (s *Store) FetchBlueprint(ctx context.Context, id string) (*spotr.Blueprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blueprint(id)
}

func (s *Store) blueprint(id string) (*spotr.Blueprint, error) {
	blueprints, err := readList[spotr.Blueprint](s, blueprintsFile)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(blueprints, func(b spotr.Blueprint) bool { return b.ID == id })
	if i < 0 {
		return nil, &spotr.NotFoundError{Kind: "blueprint", ID: id}
	}
	return &blueprints[i], nil
}

func (s *Store) CreateBlueprint(ctx context.Context, in *spotr.BlueprintInput) (*spotr.Blueprint, error) {
	if err := schema.Validate(&schema.StoreBlueprintArgs{Blueprint: in}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	blueprints, err := readList[spotr.Blueprint](s, blueprintsFile)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	b := spotr.Blueprint{
		ID:              newID("blueprint"),
		CoachID:         in.CoachID,
		Name:            in.Name,
		TargetAudience:  in.TargetAudience,
		DurationWeeks:   in.DurationWeeks,
		SessionsPerWeek: in.SessionsPerWeek,
		FitnessGoal:     in.FitnessGoal,
		EquipmentLevel:  in.EquipmentLevel,
		Description:     in.Description,
		Phases:          in.Phases,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	blueprints = append(blueprints, b)
	if err := writeList(s, blueprintsFile, blueprints); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateProgramFromBlueprint turns the blueprint's first phase into a
// program for the client: one day per session template, one block per day
// and one exercise per exercise category.
func (s *Store) CreateProgramFromBlueprint(ctx context.Context, blueprintID string, in *spotr.BlueprintProgramInput) (*spotr.Program, error) {
	if in == nil {
		return nil, fmt.Errorf("program request is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bp, err := s.blueprint(blueprintID)
	if err != nil {
		return nil, err
	}
	client, err := s.document(clientsFile, "client", in.ClientID)
	if err != nil {
		return nil, err
	}
	programs, err := readList[spotr.Program](s, programsFile)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	p := programFromBlueprint(bp, client, in)
	p.ID = newID("program")
	p.CreatedAt = now
	p.UpdatedAt = now

	programs = append(programs, *p)
	if err := writeList(s, programsFile, programs); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) CreateProgressAnalysis(ctx context.Context, in *spotr.ProgressAnalysisInput) (*spotr.ProgressAnalysis, error) {
	if err := schema.Validate(&schema.StoreProgressAnalysisArgs{Analysis: in}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	analyses, err := readList[spotr.ProgressAnalysis](s, analysesFile)
	if err != nil {
		return nil, err
	}
	a := spotr.ProgressAnalysis{
		ID:                    newID("analysis"),
		ProgressAnalysisInput: *in,
		CreatedAt:             s.timestamp(),
	}
	analyses = append(analyses, a)
	if err := writeList(s, analysesFile, analyses); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FetchProgressAnalysis(ctx context.Context, id string) (*spotr.ProgressAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	analyses, err := readList[spotr.ProgressAnalysis](s, analysesFile)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(analyses, func(a spotr.ProgressAnalysis) bool { return a.ID == id })
	if i < 0 {
		return nil, &spotr.NotFoundError{Kind: "analysis", ID: id}
	}
	return &analyses[i], nil
}

func (s *Store) CreateEvaluation(ctx context.Context, in *spotr.EvaluationInput) (*spotr.Evaluation, error) {
	if err := schema.Validate(&schema.EvaluateProgramArgs{Evaluation: in}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	evaluations, err := readList[spotr.Evaluation](s, evaluationsFile)
	if err != nil {
		return nil, err
	}
	e := spotr.Evaluation{
		ID:              newID("evaluation"),
		EvaluationInput: *in,
		CreatedAt:       s.timestamp(),
	}
	evaluations = append(evaluations, e)
	if err := writeList(s, evaluationsFile, evaluations); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) FetchEvaluation(ctx context.Context, id string) (*spotr.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evaluations, err := readList[spotr.Evaluation](s, evaluationsFile)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(evaluations, func(e spotr.Evaluation) bool { return e.ID == id })
	if i < 0 {
		return nil, &spotr.NotFoundError{Kind: "evaluation", ID: id}
	}
	return &evaluations[i], nil
}
