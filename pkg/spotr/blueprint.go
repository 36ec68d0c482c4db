package spotr

// Blueprint is a client-agnostic program template: phases of session
// templates that prescribe exercise categories with ranges.
type Blueprint struct {
	ID              string  `json:"id"`
	CoachID         string  `json:"coach_id"`
	Name            string  `json:"name"`
	TargetAudience  string  `json:"target_audience"`
	DurationWeeks   int     `json:"duration_weeks"`
	SessionsPerWeek int     `json:"sessions_per_week"`
	FitnessGoal     string  `json:"fitness_goal"`
	EquipmentLevel  string  `json:"equipment_level"`
	Description     string  `json:"description"`
	Phases          []Phase `json:"phases"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type BlueprintSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TargetAudience string `json:"target_audience"`
	DurationWeeks  int    `json:"duration_weeks"`
	CreatedAt      string `json:"created_at"`
}

func (b *Blueprint) Summary() BlueprintSummary {
	return BlueprintSummary{
		ID:             b.ID,
		Name:           b.Name,
		TargetAudience: b.TargetAudience,
		DurationWeeks:  b.DurationWeeks,
		CreatedAt:      b.CreatedAt,
	}
}

type Phase struct {
	Name                string            `json:"name" validate:"required"`
	Weeks               int               `json:"weeks" validate:"required,min=1"`
	Description         string            `json:"description" validate:"required"`
	SessionTemplates    []SessionTemplate `json:"session_templates" validate:"required,min=1,dive"`
	ProgressionStrategy string            `json:"progression_strategy" validate:"required"`
	Notes               *string           `json:"notes,omitempty"`
}

type SessionTemplate struct {
	Name               string             `json:"name" validate:"required"`
	Description        string             `json:"description" validate:"required"`
	ExerciseCategories []ExerciseCategory `json:"exercise_categories" validate:"required,min=1,dive"`
	Notes              *string            `json:"notes,omitempty"`
}

type ExerciseCategory struct {
	Category           string  `json:"category" validate:"required"`
	SetRange           string  `json:"set_range" validate:"required"`
	RepRange           string  `json:"rep_range" validate:"required"`
	IntensityGuideline string  `json:"intensity_guideline" validate:"required"`
	Notes              *string `json:"notes,omitempty"`
}

// BlueprintInput is the payload accepted by store-blueprint.
type BlueprintInput struct {
	CoachID         string  `json:"coach_id" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	TargetAudience  string  `json:"target_audience" validate:"required"`
	DurationWeeks   int     `json:"duration_weeks" validate:"required,min=1,max=52"`
	SessionsPerWeek int     `json:"sessions_per_week" validate:"required,min=1,max=7"`
	FitnessGoal     string  `json:"fitness_goal" validate:"required"`
	EquipmentLevel  string  `json:"equipment_level" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	Phases          []Phase `json:"phases" validate:"required,min=1,dive"`
	Notes           *string `json:"notes,omitempty"`
}

// BlueprintProgramInput asks the backend to personalize a blueprint into a
// concrete program for one client.
type BlueprintProgramInput struct {
	ClientID       string  `json:"client_id" validate:"required"`
	ProgramName    string  `json:"program_name" validate:"required"`
	StartDate      *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Customizations *string `json:"customizations,omitempty"`
}
