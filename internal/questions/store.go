package questions

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iRyanRib/genem/internal/database"
	"github.com/iRyanRib/genem/internal/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

const similarQuestionLimit = 5

type Store struct {
	questions *mongo.Collection
	generated *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		questions: db.Collection(database.CollectionQuestions),
		generated: db.Collection(database.CollectionGeneratedQuestions),
	}
}

// buildQuestionFilter translates a query into a Mongo filter. Zero values
// mean "no constraint".
func buildQuestionFilter(q models.QuestionQuery) bson.M {
	filter := bson.M{}
	if q.Discipline != "" {
		filter["discipline"] = q.Discipline
	}
	if q.Year != 0 {
		filter["year"] = q.Year
	}
	if q.Index != 0 {
		filter["index"] = q.Index
	}
	if q.Search != "" {
		regex := bson.M{"$regex": q.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"title": regex},
			{"context": regex},
			{"correctAlternative": regex},
		}
	}
	return filter
}

func buildGeneratedFilter(q models.GeneratedQuestionQuery) bson.M {
	filter := bson.M{}
	if q.User != "" {
		filter["user"] = q.User
	}
	if q.Discipline != "" {
		filter["discipline"] = q.Discipline
	}
	if q.Year != 0 {
		filter["year"] = q.Year
	}
	if q.SourceQuestionID != "" {
		filter["source_question_id"] = q.SourceQuestionID
	}
	if q.Search != "" {
		regex := bson.M{"$regex": q.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"title": regex},
			{"context": regex},
		}
	}
	return filter
}

// pageOptions applies sorting and pagination. A pageSize of -1 returns the
// whole result set.
func pageOptions(page, pageSize int, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * pageSize))
		opts.SetLimit(int64(pageSize))
	}
	return opts
}

func (s *Store) List(ctx context.Context, q models.QuestionQuery) ([]models.Question, int64, error) {
	filter := buildQuestionFilter(q)

	total, err := s.questions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	cursor, err := s.questions.Find(ctx, filter, pageOptions(q.Page, q.PageSize, bson.D{{Key: "index", Value: 1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Question
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode questions: %w", err)
	}
	return results, total, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var question models.Question
	err = s.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return &question, nil
}

func (s *Store) Create(ctx context.Context, create models.QuestionCreate) (*models.Question, error) {
	res, err := s.questions.InsertOne(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return s.GetByID(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

func (s *Store) Update(ctx context.Context, id string, update models.QuestionCreate) (*models.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	res, err := s.questions.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.questions.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DistinctYears(ctx context.Context) ([]int, error) {
	values, err := s.questions.Distinct(ctx, "year", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct years: %w", err)
	}

	var years []int
	for _, v := range values {
		switch y := v.(type) {
		case int32:
			years = append(years, int(y))
		case int64:
			years = append(years, int(y))
		case int:
			years = append(years, y)
		}
	}
	return years, nil
}

// FindSimilarByTopics returns questions sharing at least one topic with the
// source, excluding the source itself.
func (s *Store) FindSimilarByTopics(ctx context.Context, source models.Question) ([]models.Question, error) {
	if len(source.QuestionTopics) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"questionTopics": bson.M{"$in": source.QuestionTopics},
		"_id":            bson.M{"$ne": source.ID},
	}
	cursor, err := s.questions.Find(ctx, filter, options.Find().SetLimit(similarQuestionLimit))
	if err != nil {
		return nil, fmt.Errorf("find similar questions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Question
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode similar questions: %w", err)
	}
	return results, nil
}

func (s *Store) ListGenerated(ctx context.Context, q models.GeneratedQuestionQuery) ([]models.GeneratedQuestion, int64, error) {
	filter := buildGeneratedFilter(q)

	total, err := s.generated.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count generated questions: %w", err)
	}

	cursor, err := s.generated.Find(ctx, filter, pageOptions(q.Page, q.PageSize, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list generated questions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.GeneratedQuestion
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode generated questions: %w", err)
	}
	return results, total, nil
}

func (s *Store) GetGeneratedByID(ctx context.Context, id string) (*models.GeneratedQuestion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var question models.GeneratedQuestion
	err = s.generated.FindOne(ctx, bson.M{"_id": oid}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get generated question: %w", err)
	}
	return &question, nil
}

func (s *Store) InsertGenerated(ctx context.Context, create models.GeneratedQuestionCreate) (*models.GeneratedQuestion, error) {
	res, err := s.generated.InsertOne(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("insert generated question: %w", err)
	}
	return s.GetGeneratedByID(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

func (s *Store) UpdateGenerated(ctx context.Context, id string, update models.GeneratedQuestionCreate) (*models.GeneratedQuestion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	res, err := s.generated.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	if err != nil {
		return nil, fmt.Errorf("update generated question: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.GetGeneratedByID(ctx, id)
}

func (s *Store) DeleteGenerated(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.generated.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete generated question: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
