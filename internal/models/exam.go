package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExamStatus string

const (
	ExamNotStarted ExamStatus = "not_started"
	ExamInProgress ExamStatus = "in_progress"
	ExamFinished   ExamStatus = "finished"
)

// ExamQuestion pairs a question reference with the user's answer and a
// snapshot of the correct alternative taken at assembly time.
type ExamQuestion struct {
	QuestionID    string `json:"question_id" bson:"question_id"`
	UserAnswer    string `json:"user_answer,omitempty" bson:"user_answer,omitempty"`
	CorrectAnswer string `json:"correct_answer" bson:"correct_answer"`
}

type Exam struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         string             `json:"user_id" bson:"user_id"`
	Questions      []ExamQuestion     `json:"questions" bson:"questions"`
	TotalQuestions int                `json:"total_questions" bson:"total_questions"`
	Status         ExamStatus         `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	FinishedAt     *time.Time         `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

type ExamCreateRequest struct {
	Topics        []string `json:"topics,omitempty"`
	Years         []int    `json:"years,omitempty"`
	QuestionCount int      `json:"question_count"`
}

type ExamAnswerRequest struct {
	QuestionID string `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

type ExamListResponse struct {
	Success bool   `json:"success"`
	Data    []Exam `json:"data"`
	Total   int64  `json:"total"`
}

type ExamResponse struct {
	Success bool `json:"success"`
	Data    Exam `json:"data"`
}
