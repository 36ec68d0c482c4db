package spotr

import (
	"encoding/json"
)

// Program is a coach-authored training program as returned by the backend.
type Program struct {
	ID             string  `json:"id"`
	CoachID        string  `json:"coach_id"`
	MemberID       string  `json:"member_id"`
	TenantID       string  `json:"tenant_id"`
	OrganizationID *string `json:"organization_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Days           []Day   `json:"days"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// ProgramSummary is the top-level view used when listing programs.
type ProgramSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type Day struct {
	ID          string  `json:"id,omitempty"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DayNumber   int     `json:"day_number"`
	Blocks      []Block `json:"blocks"`
}

type Block struct {
	ID               string           `json:"id,omitempty"`
	OrderIndex       int              `json:"order_index"`
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	FormatType       *FormatType      `json:"format_type"`
	FormatParameters FormatParameters `json:"format_parameters"`
	Exercises        []Exercise       `json:"exercises"`
}

// UnmarshalJSON resolves format_parameters into the concrete shape for the
// block's format type. Parameters that do not fit that shape are kept as an
// open map so stored programs always decode.
func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	aux := struct {
		*alias
		FormatParameters json.RawMessage `json:"format_parameters"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var ft FormatType
	if b.FormatType != nil {
		ft = *b.FormatType
	}
	params, err := ParseFormatParameters(ft, aux.FormatParameters)
	if err != nil {
		params = openParameters(ft, aux.FormatParameters)
	}
	b.FormatParameters = params
	return nil
}

type Exercise struct {
	ID                   string         `json:"id,omitempty"`
	OrderIndex           int            `json:"order_index"`
	ExerciseName         string         `json:"exercise_name"`
	VideoURL             *string        `json:"video_url"`
	Notes                *string        `json:"notes"`
	ModifiableParameters map[string]any `json:"modifiable_parameters"`
}

// Summary returns the listing view of p.
func (p *Program) Summary() ProgramSummary {
	return ProgramSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Day returns the day with the given day_number.
func (p *Program) Day(number int) (*Day, bool) {
	for i := range p.Days {
		if p.Days[i].DayNumber == number {
			return &p.Days[i], true
		}
	}
	return nil, false
}

// Block returns the block with the given order_index.
func (d *Day) Block(orderIndex int) (*Block, bool) {
	for i := range d.Blocks {
		if d.Blocks[i].OrderIndex == orderIndex {
			return &d.Blocks[i], true
		}
	}
	return nil, false
}

// Exercise returns the exercise with the given order_index.
func (b *Block) Exercise(orderIndex int) (*Exercise, bool) {
	for i := range b.Exercises {
		if b.Exercises[i].OrderIndex == orderIndex {
			return &b.Exercises[i], true
		}
	}
	return nil, false
}
