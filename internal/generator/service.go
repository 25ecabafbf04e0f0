package generator

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/iRyanRib/genem/internal/models"
)

// GenerationResult is the outcome of one generation run. Err carries the
// failure reason when Success is false; the run itself never errors out of
// Generate for domain failures.
type GenerationResult struct {
	Success         bool
	Question        *models.GeneratedQuestionCreate
	RefinementCount int
	Err             error
}

// Service owns the credential pool, the completion client and the workflow.
type Service struct {
	rotator  *CredentialRotator
	workflow *Workflow
}

// NewService wires the rotator, client and searcher into a workflow. The
// QUALITY_GATED_REFINEMENT flag switches validation feedback from advisory
// to gating.
func NewService(rotator *CredentialRotator, client CompletionClient, searcher Searcher) *Service {
	qualityGated := os.Getenv("QUALITY_GATED_REFINEMENT") == "true"
	invoker := NewInvoker(client, rotator)
	return &Service{
		rotator:  rotator,
		workflow: NewWorkflow(invoker, searcher, qualityGated),
	}
}

// Generate produces a new question derived from source, using up to three
// similar questions for style reference. requestedBy is recorded on the
// resulting question.
func (s *Service) Generate(ctx context.Context, source models.Question, similar []models.Question, requestedBy string, maxRefinements int) GenerationResult {
	if len(similar) > maxSimilarQuestions {
		similar = similar[:maxSimilarQuestions]
	}

	state := s.workflow.Run(ctx, source, similar, maxRefinements)
	if state.Stage != StageCompleted || state.Draft == nil {
		log.Printf("generation for question %s failed: %v", source.ID.Hex(), state.Err)
		return GenerationResult{
			Success:         false,
			RefinementCount: state.RefinementCount,
			Err:             state.Err,
		}
	}

	return GenerationResult{
		Success:         true,
		Question:        buildGeneratedQuestion(state, requestedBy),
		RefinementCount: state.RefinementCount,
	}
}

// RotationStats exposes the credential pool counters for diagnostics.
func (s *Service) RotationStats() RotationStats {
	return s.rotator.Stats()
}

func buildGeneratedQuestion(state *WorkflowState, requestedBy string) *models.GeneratedQuestionCreate {
	draft := state.Draft
	source := state.Source

	alternatives := make([]models.Alternative, len(draft.Alternatives))
	for i, alt := range draft.Alternatives {
		alternatives[i] = models.Alternative{
			Letter:    alt.Letter,
			Text:      alt.Text,
			IsCorrect: alt.IsCorrect,
		}
	}

	return &models.GeneratedQuestionCreate{
		QuestionCreate: models.QuestionCreate{
			Title:                    draft.Title,
			Discipline:               source.Discipline,
			Language:                 source.Language,
			Year:                     time.Now().Year(),
			Context:                  draft.Context,
			CorrectAlternative:       draft.CorrectAlternative,
			AlternativesIntroduction: draft.AlternativesIntroduction,
			Alternatives:             alternatives,
			Summary:                  draft.Summary,
			Keywords:                 draft.Keywords,
			QuestionTopics:           source.QuestionTopics,
		},
		User:             requestedBy,
		Rationale:        draft.Rationale,
		SourceQuestionID: source.ID.Hex(),
		CreatedAt:        time.Now().UTC(),
	}
}
