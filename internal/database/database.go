package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used across the backend.
const (
	CollectionUsers              = "users"
	CollectionQuestions          = "questions"
	CollectionGeneratedQuestions = "generated_questions"
	CollectionQuestionTopics     = "question_topics"
	CollectionExams              = "exams"
)

func Connect(ctx context.Context) (*mongo.Database, error) {
	uri := getEnv("MONGODB_CONNECTION_STRING", "mongodb://localhost:27017")
	dbName := getEnv("DATABASE_NAME", "genem")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(dbName), nil
}

// Disconnect closes the client behind the database handle.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.Client().Disconnect(closeCtx)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
