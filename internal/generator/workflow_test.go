package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubSearcher returns a fixed result or error for every query.
type stubSearcher struct {
	results string
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

// scriptedClient answers each stage by inspecting the prompt. Validation
// responses are consumed in order so a test can script a refinement round
// followed by an approval.
type scriptedClient struct {
	generation  string
	validations []string
	refinement  string

	validationCalls int
	refinementCalls int
}

func (c *scriptedClient) Complete(ctx context.Context, credential string, messages []Message, temperature float64, maxTokens int) (string, error) {
	prompt := messages[len(messages)-1].Content
	switch {
	case strings.Contains(prompt, "validador especialista"):
		i := c.validationCalls
		c.validationCalls++
		if i >= len(c.validations) {
			i = len(c.validations) - 1
		}
		return c.validations[i], nil
	case strings.Contains(prompt, "refinar a questão"):
		c.refinementCalls++
		return c.refinement, nil
	default:
		return c.generation, nil
	}
}

func newTestWorkflow(t *testing.T, client CompletionClient, searcher Searcher, qualityGated bool) *Workflow {
	t.Helper()
	rotator, err := NewCredentialRotator("gsk_primary_key_0001")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	inv := NewInvoker(client, rotator)
	inv.backoff = 0
	return NewWorkflow(inv, searcher, qualityGated)
}

func TestWorkflow_CompletesWithApprovedDraft(t *testing.T) {
	client := &scriptedClient{
		generation:  validDraftJSON,
		validations: []string{ApprovalMarker},
	}
	searcher := &stubSearcher{results: "resultado relevante sobre o tema"}
	wf := newTestWorkflow(t, client, searcher, true)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageCompleted {
		t.Fatalf("expected completed stage, got %s (err: %v)", state.Stage, state.Err)
	}
	if state.Draft == nil {
		t.Fatal("expected a draft on the completed state")
	}
	if state.RefinementCount != 0 {
		t.Errorf("expected no refinements, got %d", state.RefinementCount)
	}
	if len(searcher.queries) != 1 {
		t.Errorf("expected exactly 1 search, got %d", len(searcher.queries))
	}
}

func TestWorkflow_CompletesDespiteNegativeFeedbackByDefault(t *testing.T) {
	client := &scriptedClient{
		generation:  validDraftJSON,
		validations: []string{RefinementMarker + ": a alternativa C está ambígua"},
	}
	wf := newTestWorkflow(t, client, &stubSearcher{results: "resultados relevantes sobre o tema"}, false)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageCompleted {
		t.Fatalf("expected completed stage, got %s", state.Stage)
	}
	if client.refinementCalls != 0 {
		t.Errorf("expected no refinement calls without quality gating, got %d", client.refinementCalls)
	}
	if !strings.Contains(state.ValidationFeedback, RefinementMarker) {
		t.Error("expected validation feedback to be preserved on the state")
	}
}

func TestWorkflow_RefinesThenCompletes(t *testing.T) {
	client := &scriptedClient{
		generation: validDraftJSON,
		validations: []string{
			RefinementMarker + ": melhorar o enunciado",
			ApprovalMarker,
		},
		refinement: validDraftJSON,
	}
	wf := newTestWorkflow(t, client, &stubSearcher{results: "resultados relevantes sobre o tema"}, true)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageCompleted {
		t.Fatalf("expected completed stage, got %s (err: %v)", state.Stage, state.Err)
	}
	if state.RefinementCount != 1 {
		t.Errorf("expected 1 refinement, got %d", state.RefinementCount)
	}
	if client.validationCalls != 2 {
		t.Errorf("expected refined draft to be validated again, got %d validations", client.validationCalls)
	}
}

func TestWorkflow_RefinementBudgetExhausted(t *testing.T) {
	client := &scriptedClient{
		generation:  validDraftJSON,
		validations: []string{RefinementMarker + ": nunca está bom"},
		refinement:  validDraftJSON,
	}
	wf := newTestWorkflow(t, client, &stubSearcher{results: "resultados relevantes sobre o tema"}, true)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageFailed {
		t.Fatalf("expected failure after exhausting the budget, got %s", state.Stage)
	}
	if state.RefinementCount != 2 {
		t.Errorf("expected 2 refinements, got %d", state.RefinementCount)
	}
	if client.refinementCalls != 2 {
		t.Errorf("expected 2 refinement calls, got %d", client.refinementCalls)
	}
	if client.validationCalls != 3 {
		t.Errorf("expected 3 validation calls, got %d", client.validationCalls)
	}
	if state.Err == nil || !strings.Contains(state.Err.Error(), "not approved") {
		t.Errorf("expected a descriptive budget error, got %v", state.Err)
	}
}

func TestWorkflow_EmptySearchResultsFails(t *testing.T) {
	client := &scriptedClient{generation: validDraftJSON, validations: []string{ApprovalMarker}}
	wf := newTestWorkflow(t, client, &stubSearcher{results: "   "}, true)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageFailed {
		t.Fatalf("expected failed stage, got %s", state.Stage)
	}
	var resErr *ResearchError
	if !errors.As(state.Err, &resErr) {
		t.Errorf("expected ResearchError, got %T", state.Err)
	}
	if state.Draft != nil {
		t.Error("expected no draft when research fails")
	}
}

func TestWorkflow_TooShortSearchResultsFail(t *testing.T) {
	client := &scriptedClient{generation: validDraftJSON, validations: []string{ApprovalMarker}}
	wf := newTestWorkflow(t, client, &stubSearcher{results: "ok 2026"}, true)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageFailed {
		t.Fatalf("expected failed stage, got %s", state.Stage)
	}
	var resErr *ResearchError
	if !errors.As(state.Err, &resErr) {
		t.Errorf("expected ResearchError, got %T", state.Err)
	}
	if state.Draft != nil {
		t.Error("expected no draft when research yields too little material")
	}
}

func TestWorkflow_SearcherErrorFails(t *testing.T) {
	client := &scriptedClient{generation: validDraftJSON, validations: []string{ApprovalMarker}}
	wf := newTestWorkflow(t, client, &stubSearcher{err: errors.New("connection refused")}, true)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageFailed {
		t.Fatalf("expected failed stage, got %s", state.Stage)
	}
	var resErr *ResearchError
	if !errors.As(state.Err, &resErr) {
		t.Fatalf("expected ResearchError, got %T", state.Err)
	}
	if !strings.Contains(state.Err.Error(), "connection refused") {
		t.Errorf("expected wrapped search failure, got %v", state.Err)
	}
}

func TestWorkflow_UnparseableGenerationFails(t *testing.T) {
	client := &scriptedClient{generation: "não consegui gerar JSON"}
	wf := newTestWorkflow(t, client, &stubSearcher{results: "resultados relevantes sobre o tema"}, true)

	state := wf.Run(context.Background(), sampleQuestion(), nil, 2)
	if state.Stage != StageFailed {
		t.Fatalf("expected failed stage, got %s", state.Stage)
	}
	var parseErr *ParseError
	if !errors.As(state.Err, &parseErr) {
		t.Errorf("expected ParseError, got %T", state.Err)
	}
}
