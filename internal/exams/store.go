package exams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iRyanRib/genem/internal/database"
	"github.com/iRyanRib/genem/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrQuestionNotInExam = errors.New("question is not part of the exam")
	ErrExamFinished      = errors.New("exam is already finished")
)

const (
	defaultExamSize = 10
	maxExamSize     = 180
)

type Store struct {
	exams     *mongo.Collection
	questions *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		exams:     db.Collection(database.CollectionExams),
		questions: db.Collection(database.CollectionQuestions),
	}
}

// Assemble builds a new exam from a random sample of questions matching the
// requested topics and years. The correct alternative of each picked
// question is snapshotted so later edits to the bank do not change the exam.
func (s *Store) Assemble(ctx context.Context, userID string, req models.ExamCreateRequest) (*models.Exam, error) {
	count := req.QuestionCount
	if count <= 0 {
		count = defaultExamSize
	}
	if count > maxExamSize {
		count = maxExamSize
	}

	match := bson.M{}
	if len(req.Topics) > 0 {
		match["questionTopics"] = bson.M{"$in": req.Topics}
	}
	if len(req.Years) > 0 {
		match["year"] = bson.M{"$in": req.Years}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": count}}},
	}
	cursor, err := s.questions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer cursor.Close(ctx)

	var picked []models.Question
	if err := cursor.All(ctx, &picked); err != nil {
		return nil, fmt.Errorf("decode sampled questions: %w", err)
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("no questions match the requested filters")
	}

	examQuestions := make([]models.ExamQuestion, len(picked))
	for i, q := range picked {
		examQuestions[i] = models.ExamQuestion{
			QuestionID:    q.ID.Hex(),
			CorrectAnswer: q.CorrectAlternative,
		}
	}

	now := time.Now().UTC()
	exam := models.Exam{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		Questions:      examQuestions,
		TotalQuestions: len(examQuestions),
		Status:         models.ExamNotStarted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := s.exams.InsertOne(ctx, exam); err != nil {
		return nil, fmt.Errorf("insert exam: %w", err)
	}
	return &exam, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Exam, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := s.exams.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count exams: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.exams.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Exam
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode exams: %w", err)
	}
	return results, total, nil
}

// Get fetches one exam owned by userID.
func (s *Store) Get(ctx context.Context, userID, examID string) (*models.Exam, error) {
	oid, err := primitive.ObjectIDFromHex(examID)
	if err != nil {
		return nil, ErrNotFound
	}

	var exam models.Exam
	err = s.exams.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&exam)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return &exam, nil
}

// RecordAnswer stores the user's answer for one question of an in-progress
// exam. The first answer moves the exam out of not_started.
func (s *Store) RecordAnswer(ctx context.Context, userID, examID string, req models.ExamAnswerRequest) (*models.Exam, error) {
	exam, err := s.Get(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status == models.ExamFinished {
		return nil, ErrExamFinished
	}

	if err := applyAnswer(exam, req); err != nil {
		return nil, err
	}
	exam.Status = models.ExamInProgress
	exam.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"questions":  exam.Questions,
		"status":     exam.Status,
		"updated_at": exam.UpdatedAt,
	}}
	if _, err := s.exams.UpdateOne(ctx, bson.M{"_id": exam.ID}, update); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}
	return exam, nil
}

// Finish closes an exam. Unanswered questions stay blank.
func (s *Store) Finish(ctx context.Context, userID, examID string) (*models.Exam, error) {
	exam, err := s.Get(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status == models.ExamFinished {
		return nil, ErrExamFinished
	}

	now := time.Now().UTC()
	exam.Status = models.ExamFinished
	exam.UpdatedAt = now
	exam.FinishedAt = &now

	update := bson.M{"$set": bson.M{
		"status":      exam.Status,
		"updated_at":  exam.UpdatedAt,
		"finished_at": exam.FinishedAt,
	}}
	if _, err := s.exams.UpdateOne(ctx, bson.M{"_id": exam.ID}, update); err != nil {
		return nil, fmt.Errorf("finish exam: %w", err)
	}
	return exam, nil
}

func (s *Store) Delete(ctx context.Context, userID, examID string) error {
	oid, err := primitive.ObjectIDFromHex(examID)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.exams.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func applyAnswer(exam *models.Exam, req models.ExamAnswerRequest) error {
	if !models.ValidAlternativeLetters[req.UserAnswer] {
		return fmt.Errorf("invalid answer letter: %s", req.UserAnswer)
	}
	for i := range exam.Questions {
		if exam.Questions[i].QuestionID == req.QuestionID {
			exam.Questions[i].UserAnswer = req.UserAnswer
			return nil
		}
	}
	return ErrQuestionNotInExam
}
