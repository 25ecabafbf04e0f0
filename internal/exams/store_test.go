package exams

import (
	"errors"
	"testing"

	"github.com/iRyanRib/genem/internal/models"
)

func sampleExam() *models.Exam {
	return &models.Exam{
		UserID: "user-123",
		Questions: []models.ExamQuestion{
			{QuestionID: "64b1f0a2c3d4e5f601234567", CorrectAnswer: "B"},
			{QuestionID: "64b1f0a2c3d4e5f601234568", CorrectAnswer: "D"},
		},
		TotalQuestions: 2,
		Status:         models.ExamNotStarted,
	}
}

func TestApplyAnswer_RecordsAnswer(t *testing.T) {
	exam := sampleExam()

	err := applyAnswer(exam, models.ExamAnswerRequest{
		QuestionID: "64b1f0a2c3d4e5f601234567",
		UserAnswer: "C",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if exam.Questions[0].UserAnswer != "C" {
		t.Errorf("expected answer C recorded, got %q", exam.Questions[0].UserAnswer)
	}
	if exam.Questions[1].UserAnswer != "" {
		t.Error("expected second question to stay unanswered")
	}
}

func TestApplyAnswer_OverwritesPreviousAnswer(t *testing.T) {
	exam := sampleExam()
	exam.Questions[0].UserAnswer = "A"

	err := applyAnswer(exam, models.ExamAnswerRequest{
		QuestionID: "64b1f0a2c3d4e5f601234567",
		UserAnswer: "E",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if exam.Questions[0].UserAnswer != "E" {
		t.Errorf("expected answer E, got %q", exam.Questions[0].UserAnswer)
	}
}

func TestApplyAnswer_InvalidLetter(t *testing.T) {
	exam := sampleExam()

	err := applyAnswer(exam, models.ExamAnswerRequest{
		QuestionID: "64b1f0a2c3d4e5f601234567",
		UserAnswer: "F",
	})
	if err == nil {
		t.Fatal("expected error for invalid answer letter")
	}
}

func TestApplyAnswer_UnknownQuestion(t *testing.T) {
	exam := sampleExam()

	err := applyAnswer(exam, models.ExamAnswerRequest{
		QuestionID: "64b1f0a2c3d4e5f6012345ff",
		UserAnswer: "A",
	})
	if !errors.Is(err, ErrQuestionNotInExam) {
		t.Errorf("expected ErrQuestionNotInExam, got %v", err)
	}
}
