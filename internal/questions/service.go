package questions

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/iRyanRib/genem/internal/generator"
	"github.com/iRyanRib/genem/internal/models"
)

type Service struct {
	store     *Store
	generator *generator.Service
}

func NewService(store *Store, gen *generator.Service) *Service {
	return &Service{store: store, generator: gen}
}

// ValidateQuestionCreate checks the structural rules every stored question
// must satisfy.
func ValidateQuestionCreate(create models.QuestionCreate) error {
	if strings.TrimSpace(create.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !models.ValidDisciplines[create.Discipline] {
		return fmt.Errorf("invalid discipline: %s", create.Discipline)
	}
	if create.Year < models.MinExamYear {
		return fmt.Errorf("year must be %d or later", models.MinExamYear)
	}
	if len(create.Alternatives) != len(models.ValidAlternativeLetters) {
		return fmt.Errorf("question must have exactly 5 alternatives")
	}

	seen := make(map[string]bool, len(create.Alternatives))
	for _, alt := range create.Alternatives {
		if !models.ValidAlternativeLetters[alt.Letter] {
			return fmt.Errorf("invalid alternative letter: %s", alt.Letter)
		}
		if seen[alt.Letter] {
			return fmt.Errorf("duplicate alternative letter: %s", alt.Letter)
		}
		seen[alt.Letter] = true
	}
	if !seen[create.CorrectAlternative] {
		return fmt.Errorf("correct alternative %s is not among the alternatives", create.CorrectAlternative)
	}
	return nil
}

// Import inserts a batch of questions, skipping the invalid ones.
func (s *Service) Import(ctx context.Context, creates []models.QuestionCreate) (int, int, []string) {
	imported, skipped := 0, 0
	var errs []string

	for i, create := range creates {
		if err := ValidateQuestionCreate(create); err != nil {
			skipped++
			errs = append(errs, fmt.Sprintf("question %d: %v", i+1, err))
			continue
		}
		if _, err := s.store.Create(ctx, create); err != nil {
			skipped++
			errs = append(errs, fmt.Sprintf("question %d: %v", i+1, err))
			continue
		}
		imported++
	}
	return imported, skipped, errs
}

// GenerateFromQuestion runs the full generation pipeline for a source
// question and persists the result.
func (s *Service) GenerateFromQuestion(ctx context.Context, questionID, userID string, maxRefinements int) (*models.GeneratedQuestion, int, error) {
	source, err := s.store.GetByID(ctx, questionID)
	if err != nil {
		return nil, 0, err
	}

	similar, err := s.store.FindSimilarByTopics(ctx, *source)
	if err != nil {
		log.Printf("similar question lookup failed for %s: %v", questionID, err)
		similar = nil
	}

	result := s.generator.Generate(ctx, *source, similar, userID, maxRefinements)
	if !result.Success {
		return nil, result.RefinementCount, result.Err
	}

	stored, err := s.store.InsertGenerated(ctx, *result.Question)
	if err != nil {
		return nil, result.RefinementCount, err
	}
	return stored, result.RefinementCount, nil
}

// RotationStats exposes the generator credential pool counters.
func (s *Service) RotationStats() generator.RotationStats {
	return s.generator.RotationStats()
}
