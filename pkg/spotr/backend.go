package spotr

import "context"

// Backend is the set of operations exposed by a Spotr deployment. Client
// talks to the REST API; the mock store implements the same contract
// against local JSON files.
type Backend interface {
	FetchAllMovements(ctx context.Context) (MovementLibrary, error)
	FetchMovementsByGroup(ctx context.Context, group MuscleGroup) ([]Movement, error)
	SearchMovements(ctx context.Context, q MovementQuery) ([]Movement, error)

	FetchAllPrograms(ctx context.Context) ([]ProgramSummary, error)
	FetchProgram(ctx context.Context, id string) (*Program, error)
	CreateProgram(ctx context.Context, in *ProgramInput) (*Program, error)
	UpdateProgram(ctx context.Context, id string, update *ProgramUpdate) (*Program, error)
	DeleteProgram(ctx context.Context, id string) error

	FetchAllBlueprints(ctx context.Context) ([]BlueprintSummary, error)
	FetchBlueprint(ctx context.Context, id string) (*Blueprint, error)
	CreateBlueprint(ctx context.Context, in *BlueprintInput) (*Blueprint, error)
	CreateProgramFromBlueprint(ctx context.Context, blueprintID string, in *BlueprintProgramInput) (*Program, error)

	FetchCoach(ctx context.Context, id string) (Document, error)
	FetchCoachStyle(ctx context.Context, id string) (Document, error)
	FetchClient(ctx context.Context, id string) (Document, error)
	FetchClientProgress(ctx context.Context, clientID, programID string) (Document, error)

	CreateProgressAnalysis(ctx context.Context, in *ProgressAnalysisInput) (*ProgressAnalysis, error)
	FetchProgressAnalysis(ctx context.Context, id string) (*ProgressAnalysis, error)
	CreateEvaluation(ctx context.Context, in *EvaluationInput) (*Evaluation, error)
	FetchEvaluation(ctx context.Context, id string) (*Evaluation, error)
	CreateShareLink(ctx context.Context, in *ShareLinkInput) (*ShareLink, error)
}
