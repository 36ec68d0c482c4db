package schema

import (
	"strings"

	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

// NoArgs is accepted by tools that take no input.
type NoArgs struct{}

type ProgramIDArgs struct {
	ProgramID string `json:"programId" validate:"notblank"`
}

type CreateProgramArgs struct {
	Program *spotr.ProgramInput `json:"program" validate:"required"`
}

func (a *CreateProgramArgs) rules() []FieldError {
	return CheckProgramInput(a.Program, "program")
}

type UpdateProgramArgs struct {
	ProgramID string               `json:"programId" validate:"notblank"`
	Update    *spotr.ProgramUpdate `json:"update" validate:"required"`
}

func (a *UpdateProgramArgs) rules() []FieldError {
	return CheckProgramUpdate(a.Update, "update")
}

type MovementGroupArgs struct {
	MuscleGroup string `json:"muscleGroup" validate:"omitempty,oneof=Chest Back Shoulders Arms Legs Core"`
}

type SearchMovementsArgs struct {
	Query       string `json:"query"`
	MuscleGroup string `json:"muscleGroup" validate:"omitempty,oneof=Chest Back Shoulders Arms Legs Core"`
	Limit       *int   `json:"limit" validate:"omitempty,min=1,max=100"`
}

func (a *SearchMovementsArgs) MovementQuery() spotr.MovementQuery {
	return spotr.MovementQuery{
		Query:       strings.TrimSpace(a.Query),
		MuscleGroup: a.MuscleGroup,
		Limit:       a.Limit,
	}
}

type BlueprintIDArgs struct {
	BlueprintID string `json:"blueprintId" validate:"notblank"`
}

type StoreBlueprintArgs struct {
	Blueprint *spotr.BlueprintInput `json:"blueprint" validate:"required"`
}

type ProgramFromBlueprintArgs struct {
	BlueprintID    string  `json:"blueprintId" validate:"notblank"`
	ClientID       string  `json:"clientId" validate:"notblank"`
	ProgramName    string  `json:"programName" validate:"notblank"`
	StartDate      *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	Customizations *string `json:"customizations"`
}

func (a *ProgramFromBlueprintArgs) Input() *spotr.BlueprintProgramInput {
	return &spotr.BlueprintProgramInput{
		ClientID:       a.ClientID,
		ProgramName:    a.ProgramName,
		StartDate:      a.StartDate,
		Customizations: a.Customizations,
	}
}

type StoreProgressAnalysisArgs struct {
	Analysis *spotr.ProgressAnalysisInput `json:"analysis" validate:"required"`
}

type AnalysisIDArgs struct {
	AnalysisID string `json:"analysisId" validate:"notblank"`
}

type EvaluateProgramArgs struct {
	Evaluation *spotr.EvaluationInput `json:"evaluation" validate:"required"`
}

type EvaluationIDArgs struct {
	EvaluationID string `json:"evaluationId" validate:"notblank"`
}

type ShareLinkArgs struct {
	EntityType    string `json:"entityType" validate:"required,oneof=program blueprint analysis evaluation"`
	EntityID      string `json:"entityId" validate:"notblank"`
	ExpiresInDays *int   `json:"expiresInDays" validate:"omitempty,min=1,max=365"`
}

func (a *ShareLinkArgs) Input() *spotr.ShareLinkInput {
	return &spotr.ShareLinkInput{
		EntityType:    a.EntityType,
		EntityID:      a.EntityID,
		ExpiresInDays: a.ExpiresInDays,
	}
}

// ResourceID validates one identifier segment taken from a resource URI.
func ResourceID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(FieldError{Field: name, Message: "is required"})
	}
	return nil
}
