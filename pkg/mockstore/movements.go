package mockstore

import (
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

//go:embed seed/movements.toml
var defaultMovements []byte

// loadMovements decodes movements.toml. Tables named after unknown muscle
// groups are rejected so typos do not silently hide movements.
func (s *Store) loadMovements() (spotr.MovementLibrary, error) {
	var raw map[string][]spotr.Movement
	if _, err := toml.DecodeFile(filepath.Join(s.dir, movementsFile), &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", movementsFile, err)
	}
	lib := make(spotr.MovementLibrary, len(spotr.MuscleGroups))
	for _, g := range spotr.MuscleGroups {
		lib[g] = []spotr.Movement{}
	}
	for key, movements := range raw {
		group, ok := spotr.ParseMuscleGroup(key)
		if !ok {
			return nil, fmt.Errorf("parse %s: unknown muscle group %q", movementsFile, key)
		}
		lib[group] = append(lib[group], movements...)
	}
	return lib, nil
}

func (s *Store) FetchAllMovements(ctx context.Context) (spotr.MovementLibrary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMovements()
}

func (s *Store) FetchMovementsByGroup(ctx context.Context, group spotr.MuscleGroup) ([]spotr.Movement, error) {
	g, ok := spotr.ParseMuscleGroup(string(group))
	if !ok {
		return nil, &spotr.NotFoundError{Kind: "muscle group", ID: string(group)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lib, err := s.loadMovements()
	if err != nil {
		return nil, err
	}
	return lib[g], nil
}

// SearchMovements matches the query against name and variation, ignoring
// case, and returns at most the effective limit in taxonomy order.
func (s *Store) SearchMovements(ctx context.Context, q spotr.MovementQuery) ([]spotr.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lib, err := s.loadMovements()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Query))
	limit := q.EffectiveLimit()
	out := []spotr.Movement{}
	for _, g := range spotr.MuscleGroups {
		if q.MuscleGroup != "" && !strings.EqualFold(q.MuscleGroup, string(g)) {
			continue
		}
		for _, m := range lib[g] {
			if needle != "" &&
				!strings.Contains(strings.ToLower(m.Name), needle) &&
				!strings.Contains(strings.ToLower(m.Variation), needle) {
				continue
			}
			m.MuscleGroup = g
			out = append(out, m)
			if len(out) == limit {
				return out, nil
			}
		}
	}
	return out, nil
}
