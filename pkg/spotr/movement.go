package spotr

import "strings"

// MuscleGroup partitions the movement library.
type MuscleGroup string

const (
	Chest     MuscleGroup = "Chest"
	Back      MuscleGroup = "Back"
	Shoulders MuscleGroup = "Shoulders"
	Arms      MuscleGroup = "Arms"
	Legs      MuscleGroup = "Legs"
	Core      MuscleGroup = "Core"
)

// MuscleGroups lists the taxonomy in display order.
var MuscleGroups = []MuscleGroup{Chest, Back, Shoulders, Arms, Legs, Core}

// ParseMuscleGroup matches s against the taxonomy, ignoring case.
func ParseMuscleGroup(s string) (MuscleGroup, bool) {
	s = strings.TrimSpace(s)
	for _, g := range MuscleGroups {
		if strings.EqualFold(string(g), s) {
			return g, true
		}
	}
	return "", false
}

// Movement is one entry in the coach's movement library.
type Movement struct {
	Name        string      `json:"name" toml:"name"`
	Variation   string      `json:"variation" toml:"variation"`
	ClientDemo  string      `json:"client_demo" toml:"client_demo"`
	MuscleGroup MuscleGroup `json:"muscle_group,omitempty" toml:"-"`
}

// MovementLibrary maps each muscle group to its movements.
type MovementLibrary map[MuscleGroup][]Movement

// Count returns the number of movements across all groups.
func (l MovementLibrary) Count() int {
	n := 0
	for _, ms := range l {
		n += len(ms)
	}
	return n
}

// MovementQuery filters the library for search-movements.
type MovementQuery struct {
	Query       string `json:"query,omitempty"`
	MuscleGroup string `json:"muscle_group,omitempty" validate:"omitempty,oneof=Chest Back Shoulders Arms Legs Core"`
	Limit       *int   `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// EffectiveLimit returns the requested limit or DefaultSearchLimit.
func (q MovementQuery) EffectiveLimit() int {
	if q.Limit == nil {
		return DefaultSearchLimit
	}
	return *q.Limit
}

const DefaultSearchLimit = 20
