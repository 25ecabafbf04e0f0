package generator

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, client CompletionClient, searcher Searcher) *Service {
	t.Helper()
	rotator, err := NewCredentialRotator("gsk_primary_key_0001", "gsk_backup_key_00002")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	svc := NewService(rotator, client, searcher)
	svc.workflow.invoker.backoff = 0
	return svc
}

func TestService_GenerateSuccess(t *testing.T) {
	client := &scriptedClient{
		generation:  validDraftJSON,
		validations: []string{ApprovalMarker},
	}
	searcher := &stubSearcher{results: "notícias recentes sobre energia solar"}
	svc := newTestService(t, client, searcher)

	source := sampleQuestion()
	result := svc.Generate(context.Background(), source, nil, "user-123", 2)
	if !result.Success {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	q := result.Question
	if q == nil {
		t.Fatal("expected a generated question")
	}
	if q.User != "user-123" {
		t.Errorf("expected requester user-123, got %q", q.User)
	}
	if q.SourceQuestionID != source.ID.Hex() {
		t.Errorf("expected source id %s, got %s", source.ID.Hex(), q.SourceQuestionID)
	}
	if q.Discipline != source.Discipline {
		t.Errorf("expected discipline %s, got %s", source.Discipline, q.Discipline)
	}
	if q.Year != time.Now().Year() {
		t.Errorf("expected current year, got %d", q.Year)
	}
	if q.Rationale == "" {
		t.Error("expected a rationale on the generated question")
	}

	correct := 0
	for _, alt := range q.Alternatives {
		if alt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		t.Errorf("expected exactly 1 correct alternative, got %d", correct)
	}
}

func TestService_GenerateResearchFailure(t *testing.T) {
	client := &scriptedClient{generation: validDraftJSON, validations: []string{ApprovalMarker}}
	svc := newTestService(t, client, &stubSearcher{results: ""})

	result := svc.Generate(context.Background(), sampleQuestion(), nil, "user-123", 2)
	if result.Success {
		t.Fatal("expected failure when research finds nothing")
	}
	if result.Question != nil {
		t.Error("expected no question on failure")
	}
	var resErr *ResearchError
	if !errors.As(result.Err, &resErr) {
		t.Errorf("expected ResearchError, got %T", result.Err)
	}
}

func TestService_RotationStats(t *testing.T) {
	client := &scriptedClient{
		generation:  validDraftJSON,
		validations: []string{ApprovalMarker},
	}
	svc := newTestService(t, client, &stubSearcher{results: "resultados relevantes sobre o tema"})

	if result := svc.Generate(context.Background(), sampleQuestion(), nil, "user-123", 2); !result.Success {
		t.Fatalf("expected success, got error: %v", result.Err)
	}

	stats := svc.RotationStats()
	if stats.TotalCredentials != 2 {
		t.Errorf("expected 2 credentials, got %d", stats.TotalCredentials)
	}
	// generation + validation, one credential draw each
	if stats.TotalUsage != 2 {
		t.Errorf("expected 2 credential draws, got %d", stats.TotalUsage)
	}
}
