package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Discipline string

const (
	DisciplineCienciasHumanas  Discipline = "ciencias-humanas"
	DisciplineCienciasNatureza Discipline = "ciencias-natureza"
	DisciplineLinguagens       Discipline = "linguagens"
	DisciplineMatematica       Discipline = "matematica"
	DisciplineEspanhol         Discipline = "espanhol"
	DisciplineIngles           Discipline = "ingles"
)

var ValidDisciplines = map[Discipline]bool{
	DisciplineCienciasHumanas:  true,
	DisciplineCienciasNatureza: true,
	DisciplineLinguagens:       true,
	DisciplineMatematica:       true,
	DisciplineEspanhol:         true,
	DisciplineIngles:           true,
}

var ValidAlternativeLetters = map[string]bool{"A": true, "B": true, "C": true, "D": true, "E": true}

// MinExamYear is the first year the exam was administered.
const MinExamYear = 1998

type Alternative struct {
	Letter    string `json:"letter" bson:"letter"`
	Text      string `json:"text" bson:"text"`
	IsCorrect bool   `json:"isCorrect" bson:"isCorrect"`
}

type Question struct {
	ID                       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title                    string             `json:"title" bson:"title"`
	Index                    int                `json:"index" bson:"index"`
	Discipline               Discipline         `json:"discipline" bson:"discipline"`
	Language                 string             `json:"language,omitempty" bson:"language,omitempty"`
	Year                     int                `json:"year" bson:"year"`
	Context                  string             `json:"context,omitempty" bson:"context,omitempty"`
	CorrectAlternative       string             `json:"correctAlternative" bson:"correctAlternative"`
	AlternativesIntroduction string             `json:"alternativesIntroduction,omitempty" bson:"alternativesIntroduction,omitempty"`
	Alternatives             []Alternative      `json:"alternatives" bson:"alternatives"`
	Summary                  string             `json:"summary,omitempty" bson:"summary,omitempty"`
	Keywords                 []string           `json:"keywords,omitempty" bson:"keywords,omitempty"`
	QuestionTopics           []string           `json:"questionTopics,omitempty" bson:"questionTopics,omitempty"`
}

// QuestionCreate carries the insertable fields of a question. The ID is
// assigned by the store.
type QuestionCreate struct {
	Title                    string        `json:"title" bson:"title"`
	Index                    int           `json:"index" bson:"index"`
	Discipline               Discipline    `json:"discipline" bson:"discipline"`
	Language                 string        `json:"language,omitempty" bson:"language,omitempty"`
	Year                     int           `json:"year" bson:"year"`
	Context                  string        `json:"context,omitempty" bson:"context,omitempty"`
	CorrectAlternative       string        `json:"correctAlternative" bson:"correctAlternative"`
	AlternativesIntroduction string        `json:"alternativesIntroduction,omitempty" bson:"alternativesIntroduction,omitempty"`
	Alternatives             []Alternative `json:"alternatives" bson:"alternatives"`
	Summary                  string        `json:"summary,omitempty" bson:"summary,omitempty"`
	Keywords                 []string      `json:"keywords,omitempty" bson:"keywords,omitempty"`
	QuestionTopics           []string      `json:"questionTopics,omitempty" bson:"questionTopics,omitempty"`
}

// GeneratedQuestion is a question produced by the generation pipeline,
// persisted alongside the requester and the source question it came from.
type GeneratedQuestion struct {
	Question         `bson:",inline"`
	User             string    `json:"user" bson:"user"`
	Rationale        string    `json:"rationale" bson:"rationale"`
	SourceQuestionID string    `json:"source_question_id" bson:"source_question_id"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// GeneratedQuestionCreate is the persistable creation record built by the
// generator service on a successful run.
type GeneratedQuestionCreate struct {
	QuestionCreate   `bson:",inline"`
	User             string    `json:"user" bson:"user"`
	Rationale        string    `json:"rationale" bson:"rationale"`
	SourceQuestionID string    `json:"source_question_id" bson:"source_question_id"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// ── Query Types ───────────────────────────────────────────

type QuestionQuery struct {
	Page       int
	PageSize   int
	Search     string
	Index      int
	Discipline Discipline
	Year       int
}

type GeneratedQuestionQuery struct {
	Page             int
	PageSize         int
	Search           string
	User             string
	Discipline       Discipline
	Year             int
	SourceQuestionID string
}

// ── Request Types ─────────────────────────────────────────

type GenerateQuestionRequest struct {
	QuestionID     string `json:"question_id"`
	MaxRefinements int    `json:"max_refinements,omitempty"`
}

type QuestionImportRequest struct {
	Questions []QuestionCreate `json:"questions"`
}

// ── Response Types ────────────────────────────────────────

type QuestionListResponse struct {
	Success  bool       `json:"success"`
	Data     []Question `json:"data"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

type QuestionResponse struct {
	Success bool     `json:"success"`
	Data    Question `json:"data"`
}

type QuestionImportResponse struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

type GeneratedQuestionListResponse struct {
	Success  bool                `json:"success"`
	Data     []GeneratedQuestion `json:"data"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

type GeneratedQuestionResponse struct {
	Success bool              `json:"success"`
	Data    GeneratedQuestion `json:"data"`
}

type GenerateQuestionResponse struct {
	Success bool              `json:"success"`
	Data    GeneratedQuestion `json:"data"`
	Message string            `json:"message"`
}
