package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iRyanRib/genem/internal/models"
)

// Stage identifies where a generation run currently is.
type Stage string

const (
	StageResearching Stage = "researching"
	StageGenerating  Stage = "generating"
	StageValidating  Stage = "validating"
	StageRefining    Stage = "refining"
	StageCompleted   Stage = "completed"
	StageFailed      Stage = "failed"
)

const (
	generationTemperature = 0.7
	validationTemperature = 0.2
	refinementTemperature = 0.2

	defaultMaxRefinements = 3

	// Search output at or under this length carries no usable grounding.
	minResearchResultLen = 10
)

// WorkflowState accumulates the outputs of each stage. Stage errors are
// captured here instead of aborting the run, so a finished state is always
// either completed or failed.
type WorkflowState struct {
	Stage              Stage
	Source             models.Question
	Similar            []models.Question
	ResearchNotes      string
	Draft              *Draft
	ValidationFeedback string
	RefinementCount    int
	MaxRefinements     int
	Err                error
}

// Workflow drives a question draft through research, generation, validation
// and optional refinement.
type Workflow struct {
	invoker  *Invoker
	searcher Searcher

	// qualityGated routes drafts back through refinement when validation
	// flags problems. When false every validated draft completes
	// immediately, whatever the feedback says.
	qualityGated bool
}

func NewWorkflow(invoker *Invoker, searcher Searcher, qualityGated bool) *Workflow {
	return &Workflow{
		invoker:      invoker,
		searcher:     searcher,
		qualityGated: qualityGated,
	}
}

// Run executes the stages in order until the state reaches a terminal stage.
func (w *Workflow) Run(ctx context.Context, source models.Question, similar []models.Question, maxRefinements int) *WorkflowState {
	if maxRefinements <= 0 {
		maxRefinements = defaultMaxRefinements
	}
	state := &WorkflowState{
		Stage:          StageResearching,
		Source:         source,
		Similar:        similar,
		MaxRefinements: maxRefinements,
	}

	for {
		switch state.Stage {
		case StageResearching:
			w.research(ctx, state)
		case StageGenerating:
			w.generate(ctx, state)
		case StageValidating:
			w.validate(ctx, state)
		case StageRefining:
			w.refine(ctx, state)
		case StageCompleted, StageFailed:
			return state
		}
	}
}

func (w *Workflow) research(ctx context.Context, state *WorkflowState) {
	query := BuildSearchQuery(state.Source, time.Now().Year())
	log.Printf("researching question %s: %q", state.Source.ID.Hex(), query)

	results, err := w.searcher.Search(ctx, query)
	if err != nil {
		state.Err = &ResearchError{Query: query, Err: err}
		state.Stage = StageFailed
		return
	}
	if len(strings.TrimSpace(results)) <= minResearchResultLen {
		state.Err = &ResearchError{Query: query}
		state.Stage = StageFailed
		return
	}

	state.ResearchNotes = BuildResearchNotes(query, results, state.Source)
	state.Stage = StageGenerating
}

func (w *Workflow) generate(ctx context.Context, state *WorkflowState) {
	prompt := BuildGenerationPrompt(state.Source, state.Similar, state.ResearchNotes)

	raw, err := w.invoker.Invoke(ctx, []Message{{Role: RoleUser, Content: prompt}}, generationTemperature, 0)
	if err != nil {
		state.Err = err
		state.Stage = StageFailed
		return
	}

	draft, err := ParseDraft(raw)
	if err != nil {
		state.Err = err
		state.Stage = StageFailed
		return
	}

	state.Draft = draft
	state.Stage = StageValidating
}

func (w *Workflow) validate(ctx context.Context, state *WorkflowState) {
	prompt := BuildValidationPrompt(state.Draft)

	feedback, err := w.invoker.Invoke(ctx, []Message{{Role: RoleUser, Content: prompt}}, validationTemperature, 0)
	if err != nil {
		state.Err = err
		state.Stage = StageFailed
		return
	}

	state.ValidationFeedback = feedback
	state.Stage = w.decideAfterValidation(state)
}

// decideAfterValidation picks the edge out of the validation stage. Without
// quality gating any existing draft completes regardless of feedback, which
// also keeps a run from looping when the validator never approves.
func (w *Workflow) decideAfterValidation(state *WorkflowState) Stage {
	if !w.qualityGated {
		if state.Draft != nil {
			return StageCompleted
		}
		return StageFailed
	}

	if IsApproved(state.ValidationFeedback) {
		return StageCompleted
	}
	return StageRefining
}

// refine owns the budget check so exhaustion fails the run without another
// validation pass.
func (w *Workflow) refine(ctx context.Context, state *WorkflowState) {
	if state.RefinementCount >= state.MaxRefinements {
		state.Err = fmt.Errorf("draft not approved after %d refinement(s)", state.RefinementCount)
		state.Stage = StageFailed
		return
	}

	prompt := BuildRefinementPrompt(state.Draft, state.ValidationFeedback)

	raw, err := w.invoker.Invoke(ctx, []Message{{Role: RoleUser, Content: prompt}}, refinementTemperature, 0)
	if err != nil {
		state.Err = err
		state.Stage = StageFailed
		return
	}

	draft, err := ParseDraft(raw)
	if err != nil {
		state.Err = err
		state.Stage = StageFailed
		return
	}

	state.Draft = draft
	state.RefinementCount++
	state.Stage = StageValidating
}
