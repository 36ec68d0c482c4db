package spotr

import "encoding/json"

// ProgramInput is the payload accepted by create-program.
type ProgramInput struct {
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description"`
	Days        []DayInput `json:"days" validate:"required,dive"`
}

type DayInput struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	DayNumber   *int         `json:"day_number" validate:"required,min=0"`
	Blocks      []BlockInput `json:"blocks" validate:"required,dive"`
}

type BlockInput struct {
	OrderIndex       *int            `json:"order_index" validate:"required,min=0"`
	Name             *string         `json:"name"`
	Description      *string         `json:"description"`
	FormatType       *FormatType     `json:"format_type" validate:"omitempty,oneof=standard circuit amrap emom tabata complex"`
	FormatParameters json.RawMessage `json:"format_parameters,omitempty"`
	Exercises        []ExerciseInput `json:"exercises" validate:"required,dive"`
}

// Parameters resolves the block's format_parameters into their tagged shape.
func (b *BlockInput) Parameters() (FormatParameters, error) {
	var ft FormatType
	if b.FormatType != nil {
		ft = *b.FormatType
	}
	return ParseFormatParameters(ft, b.FormatParameters)
}

type ExerciseInput struct {
	OrderIndex           *int           `json:"order_index" validate:"required,min=0"`
	ExerciseName         string         `json:"exercise_name" validate:"required"`
	VideoURL             *string        `json:"video_url"`
	Notes                *string        `json:"notes"`
	ModifiableParameters map[string]any `json:"modifiable_parameters"`
}

// ProgramUpdate is a partial program. Omitted fields are left unchanged;
// listed days, blocks and exercises are matched by their position key and
// updated, or inserted when no entity holds that key.
type ProgramUpdate struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Description Optional[string] `json:"description,omitzero"`
	Days        []DayUpdate      `json:"days,omitempty" validate:"omitempty,dive"`
}

type DayUpdate struct {
	DayNumber   *int             `json:"day_number" validate:"required,min=0"`
	Name        Optional[string] `json:"name,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
	Blocks      []BlockUpdate    `json:"blocks,omitempty" validate:"omitempty,dive"`
}

type BlockUpdate struct {
	OrderIndex       *int                 `json:"order_index" validate:"required,min=0"`
	Name             Optional[string]     `json:"name,omitzero"`
	Description      Optional[string]     `json:"description,omitzero"`
	FormatType       Optional[FormatType] `json:"format_type,omitzero"`
	FormatParameters json.RawMessage      `json:"format_parameters,omitempty"`
	Exercises        []ExerciseUpdate     `json:"exercises,omitempty" validate:"omitempty,dive"`
}

type ExerciseUpdate struct {
	OrderIndex           *int                     `json:"order_index" validate:"required,min=0"`
	ExerciseName         *string                  `json:"exercise_name,omitempty" validate:"omitempty,min=1"`
	VideoURL             Optional[string]         `json:"video_url,omitzero"`
	Notes                Optional[string]         `json:"notes,omitzero"`
	ModifiableParameters Optional[map[string]any] `json:"modifiable_parameters,omitzero"`
}
