package spotr

// Timeframe values accepted for progress analyses.
const (
	Timeframe1Week         = "1_week"
	Timeframe2Weeks        = "2_weeks"
	Timeframe4Weeks        = "4_weeks"
	Timeframe8Weeks        = "8_weeks"
	TimeframeEntireProgram = "entire_program"
)

// TimeframeLabel renders a timeframe for humans.
func TimeframeLabel(tf string) string {
	switch tf {
	case Timeframe1Week:
		return "1 week"
	case Timeframe2Weeks:
		return "2 weeks"
	case Timeframe4Weeks:
		return "4 weeks"
	case Timeframe8Weeks:
		return "8 weeks"
	case TimeframeEntireProgram:
		return "the entire program"
	}
	return tf
}

type StrengthProgress struct {
	Exercise     string  `json:"exercise" validate:"required"`
	StartValue   float64 `json:"start_value"`
	CurrentValue float64 `json:"current_value"`
	Unit         string  `json:"unit" validate:"required"`
	Notes        *string `json:"notes,omitempty"`
}

type BodyCompositionChange struct {
	Metric       string  `json:"metric" validate:"required,oneof=weight body_fat chest waist hips arms legs other"`
	StartValue   float64 `json:"start_value"`
	CurrentValue float64 `json:"current_value"`
	Unit         string  `json:"unit" validate:"required"`
}

type Adherence struct {
	PlannedSessions   int      `json:"planned_sessions" validate:"min=0"`
	CompletedSessions int      `json:"completed_sessions" validate:"min=0"`
	AdherenceRate     float64  `json:"adherence_rate" validate:"min=0,max=100"`
	Factors           []string `json:"factors,omitempty"`
}

// ProgressAnalysisInput is the payload accepted by store-progress-analysis.
type ProgressAnalysisInput struct {
	ClientID                  string                  `json:"client_id" validate:"required"`
	ProgramID                 string                  `json:"program_id" validate:"required"`
	Timeframe                 string                  `json:"timeframe" validate:"required,oneof=1_week 2_weeks 4_weeks 8_weeks entire_program"`
	StrengthProgress          []StrengthProgress      `json:"strength_progress" validate:"omitempty,dive"`
	BodyCompositionChanges    []BodyCompositionChange `json:"body_composition_changes,omitempty" validate:"omitempty,dive"`
	Adherence                 *Adherence              `json:"adherence" validate:"required"`
	OverallAssessment         string                  `json:"overall_assessment" validate:"required"`
	ActionableRecommendations []string                `json:"actionable_recommendations" validate:"required,min=1,max=5,dive,required"`
}

type ProgressAnalysis struct {
	ID string `json:"id"`
	ProgressAnalysisInput
	CreatedAt string `json:"created_at"`
}

// Evaluation scores, each 0-100.
type EvaluationScores struct {
	Overall                 int `json:"overall" validate:"min=0,max=100"`
	StructureAndProgression int `json:"structure_and_progression" validate:"min=0,max=100"`
	ExerciseSelection       int `json:"exercise_selection" validate:"min=0,max=100"`
	VolumeAndIntensity      int `json:"volume_and_intensity" validate:"min=0,max=100"`
	Recovery                int `json:"recovery" validate:"min=0,max=100"`
	Specificity             int `json:"specificity" validate:"min=0,max=100"`
	Practicality            int `json:"practicality" validate:"min=0,max=100"`
}

// EvaluationPurposes lists the accepted evaluation_purpose values.
var EvaluationPurposes = []string{"client_suitability", "general_quality", "scientific_validity", "coach_review", "peer_review"}

// EvaluationInput is the payload accepted by evaluate-program.
type EvaluationInput struct {
	EntityType             string            `json:"entity_type" validate:"required,oneof=program blueprint"`
	EntityID               string            `json:"entity_id" validate:"required"`
	EvaluationPurpose      string            `json:"evaluation_purpose" validate:"required,oneof=client_suitability general_quality scientific_validity coach_review peer_review"`
	ClientID               *string           `json:"client_id,omitempty"`
	Scores                 *EvaluationScores `json:"scores" validate:"required"`
	Strengths              []string          `json:"strengths" validate:"required,min=1,dive,required"`
	Weaknesses             []string          `json:"weaknesses"`
	ImprovementSuggestions []string          `json:"improvement_suggestions"`
	SuitabilityConclusion  *string           `json:"suitability_conclusion,omitempty"`
}

type Evaluation struct {
	ID string `json:"id"`
	EvaluationInput
	CreatedAt string `json:"created_at"`
}

// ScoreLabel describes a 0-100 score.
func ScoreLabel(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very Good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Satisfactory"
	case score >= 50:
		return "Needs Improvement"
	}
	return "Unsatisfactory"
}

// ShareLinkInput is the payload accepted by generate-share-link.
type ShareLinkInput struct {
	EntityType    string `json:"entity_type" validate:"required,oneof=program blueprint analysis evaluation"`
	EntityID      string `json:"entity_id" validate:"required"`
	ExpiresInDays *int   `json:"expires_in_days,omitempty" validate:"omitempty,min=1,max=365"`
}

const DefaultShareExpiryDays = 30

// Days returns the requested expiry or DefaultShareExpiryDays.
func (in ShareLinkInput) Days() int {
	if in.ExpiresInDays == nil {
		return DefaultShareExpiryDays
	}
	return *in.ExpiresInDays
}

type ShareLink struct {
	ShareURL   string `json:"share_url"`
	AccessCode string `json:"access_code"`
	ExpiresAt  string `json:"expires_at"`
}

// Document is a backend-owned record read through a resource and passed
// through without a fixed shape (coach and client profiles, progress logs).
type Document map[string]any
