package topics

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

var ErrNotFound = errors.New("not found")

type Store struct {
	topics *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{topics: db.Collection(database.CollectionQuestionTopics)}
}

func buildTopicFilter(q models.QuestionTopicQuery) bson.M {
	filter := bson.M{}
	if q.Field != "" {
		filter["field"] = q.Field
	}
	if q.Area != "" {
		filter["area"] = q.Area
	}
	if q.FieldCode != "" {
		filter["field_code"] = q.FieldCode
	}
	if q.AreaCode != "" {
		filter["area_code"] = q.AreaCode
	}
	if q.Search != "" {
		regex := bson.M{"$regex": q.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"general_topic": regex},
			{"specific_topic": regex},
		}
	}
	return filter
}

func (s *Store) List(ctx context.Context, q models.QuestionTopicQuery) ([]models.QuestionTopic, int64, error) {
	filter := buildTopicFilter(q)

	total, err := s.topics.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count topics: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "field", Value: 1}, {Key: "area", Value: 1}})
	if q.PageSize > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * q.PageSize))
		opts.SetLimit(int64(q.PageSize))
	}

	cursor, err := s.topics.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list topics: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.QuestionTopic
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode topics: %w", err)
	}
	return results, total, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.QuestionTopic, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var topic models.QuestionTopic
	err = s.topics.FindOne(ctx, bson.M{"_id": oid}).Decode(&topic)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return &topic, nil
}

func (s *Store) Create(ctx context.Context, create models.QuestionTopicCreate) (*models.QuestionTopic, error) {
	res, err := s.topics.InsertOne(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return s.GetByID(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

func (s *Store) Update(ctx context.Context, id string, update models.QuestionTopicCreate) (*models.QuestionTopic, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	res, err := s.topics.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	if err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
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

	res, err := s.topics.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DistinctValues lists the unique values of one taxonomy level.
func (s *Store) DistinctValues(ctx context.Context, field string) ([]string, error) {
	values, err := s.topics.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}

	var results []string
	for _, v := range values {
		if str, ok := v.(string); ok && str != "" {
			results = append(results, str)
		}
	}
	return results, nil
}
