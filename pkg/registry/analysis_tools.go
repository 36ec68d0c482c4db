package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

const storeAnalysisDescription = `Store an analysis of a client's progress on a program.

Read the client's progress log first (client://{clientId}/programs/{programId}/progress) and compare it with the program. Record strength changes per exercise, body-composition changes, adherence (planned versus completed sessions and the completion rate) and between one and five actionable recommendations.`

const evaluateProgramDescription = `Store a structured evaluation of a program or blueprint.

Score each dimension from 0 to 100: overall, structure_and_progression, exercise_selection, volume_and_intensity, recovery, specificity and practicality. List at least one strength, plus weaknesses and improvement suggestions. For client_suitability evaluations pass the client_id and a suitability_conclusion.

Score bands: 90+ Excellent, 80+ Very Good, 70+ Good, 60+ Satisfactory, 50+ Needs Improvement, below 50 Unsatisfactory.`

// ScoredEvaluation is an evaluation with a label for each score.
type ScoredEvaluation struct {
	*spotr.Evaluation
	ScoreLabels map[string]string `json:"score_labels"`
}

func scored(e *spotr.Evaluation) ScoredEvaluation {
	out := ScoredEvaluation{Evaluation: e, ScoreLabels: map[string]string{}}
	if e.Scores == nil {
		return out
	}
	s := e.Scores
	for name, v := range map[string]int{
		"overall":                   s.Overall,
		"structure_and_progression": s.StructureAndProgression,
		"exercise_selection":        s.ExerciseSelection,
		"volume_and_intensity":      s.VolumeAndIntensity,
		"recovery":                  s.Recovery,
		"specificity":               s.Specificity,
		"practicality":              s.Practicality,
	} {
		out.ScoreLabels[name] = spotr.ScoreLabel(v)
	}
	return out
}

func evaluationMessage(prefix string, e *spotr.Evaluation) string {
	if e.Scores == nil {
		return prefix
	}
	return fmt.Sprintf("%s Overall score: %d/100 (%s).", prefix, e.Scores.Overall, spotr.ScoreLabel(e.Scores.Overall))
}

func (b *Builder) PopulateAnalysisTools(backend spotr.Backend) *Builder {
	analysisID := func(a *schema.AnalysisIDArgs) string { return a.AnalysisID }

	return b.addTools(CategoryAnalysis, []toolSpec{
		{
			name:        "store-progress-analysis",
			title:       "Store progress analysis",
			description: storeAnalysisDescription,
			args:        objectArg("analysis", "The analysis to store.", schema.ProgressAnalysisInputSchema()),
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.StoreProgressAnalysisArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				a, err := backend.CreateProgressAnalysis(ctx, args.Analysis)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{
					Message: fmt.Sprintf("Stored progress analysis! Covers %s.", spotr.TimeframeLabel(a.Timeframe)),
					Payload: a,
				}, nil
			},
		},
		{
			name:        "fetch-progress-analysis",
			title:       "Get progress analysis",
			description: "Fetch a stored progress analysis by ID.",
			readOnly:    true,
			args:        []mcp.ToolOption{idArg("analysisId", "ID of the analysis.")},
			handler:     fetch("Fetched progress analysis!", analysisID, backend.FetchProgressAnalysis),
		},
		{
			name:        "evaluate-program",
			title:       "Evaluate program",
			description: evaluateProgramDescription,
			args:        objectArg("evaluation", "The evaluation to store.", schema.EvaluationInputSchema()),
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.EvaluateProgramArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				e, err := backend.CreateEvaluation(ctx, args.Evaluation)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Message: evaluationMessage("Stored evaluation!", e), Payload: scored(e)}, nil
			},
		},
		{
			name:        "fetch-evaluation",
			title:       "Get evaluation",
			description: "Fetch a stored evaluation by ID, with a label for each score.",
			readOnly:    true,
			args:        []mcp.ToolOption{idArg("evaluationId", "ID of the evaluation.")},
			handler: func(ctx context.Context, raw []byte) (Outcome, error) {
				args, err := parse[schema.EvaluationIDArgs](raw)
				if err != nil {
					return Outcome{}, err
				}
				e, err := backend.FetchEvaluation(ctx, args.EvaluationID)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Message: evaluationMessage("Fetched evaluation!", e), Payload: scored(e)}, nil
			},
		},
	})
}
