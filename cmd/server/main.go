package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/iRyanRib/genem/internal/auth"
	"github.com/iRyanRib/genem/internal/database"
	"github.com/iRyanRib/genem/internal/exams"
	"github.com/iRyanRib/genem/internal/generator"
	"github.com/iRyanRib/genem/internal/questions"
	"github.com/iRyanRib/genem/internal/topics"
)

func main() {
	ctx := context.Background()

	db, err := database.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Disconnect(ctx, db)

	// Credential pool: primary key plus optional comma-separated extras.
	extras := strings.Split(os.Getenv("GROQ_API_TOKENS"), ",")
	rotator, err := generator.NewCredentialRotator(os.Getenv("GROQ_API_KEY"), extras...)
	if err != nil {
		log.Fatalf("Failed to build credential pool: %v", err)
	}
	log.Printf("Credential pool ready with %d key(s)", rotator.Size())

	genService := generator.NewService(rotator, generator.NewGroqClient(), generator.NewDuckDuckGoSearcher())

	authHandler := auth.NewHandler(db)
	questionHandler := questions.NewHandler(questions.NewService(questions.NewStore(db), genService))
	topicHandler := topics.NewHandler(topics.NewStore(db))
	examHandler := exams.NewHandler(exams.NewStore(db))

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/questions", questionHandler.List).Methods("GET")
	protected.HandleFunc("/questions", questionHandler.Create).Methods("POST")
	protected.HandleFunc("/questions/import", questionHandler.Import).Methods("POST")
	protected.HandleFunc("/questions/years", questionHandler.Years).Methods("GET")
	protected.HandleFunc("/questions/{id}", questionHandler.Get).Methods("GET")
	protected.HandleFunc("/questions/{id}", questionHandler.Update).Methods("PUT")
	protected.HandleFunc("/questions/{id}", questionHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/generated-questions", questionHandler.ListGenerated).Methods("GET")
	protected.HandleFunc("/generated-questions/generate", questionHandler.Generate).Methods("POST")
	protected.HandleFunc("/generated-questions/rotation-stats", questionHandler.RotationStats).Methods("GET")
	protected.HandleFunc("/generated-questions/{id}", questionHandler.GetGenerated).Methods("GET")
	protected.HandleFunc("/generated-questions/{id}", questionHandler.UpdateGenerated).Methods("PUT")
	protected.HandleFunc("/generated-questions/{id}", questionHandler.DeleteGenerated).Methods("DELETE")

	protected.HandleFunc("/topics", topicHandler.List).Methods("GET")
	protected.HandleFunc("/topics", topicHandler.Create).Methods("POST")
	protected.HandleFunc("/topics/distinct/{level}", topicHandler.Distinct).Methods("GET")
	protected.HandleFunc("/topics/{id}", topicHandler.Get).Methods("GET")
	protected.HandleFunc("/topics/{id}", topicHandler.Update).Methods("PUT")
	protected.HandleFunc("/topics/{id}", topicHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/exams", examHandler.List).Methods("GET")
	protected.HandleFunc("/exams", examHandler.Create).Methods("POST")
	protected.HandleFunc("/exams/{id}", examHandler.Get).Methods("GET")
	protected.HandleFunc("/exams/{id}", examHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/exams/{id}/answer", examHandler.Answer).Methods("POST")
	protected.HandleFunc("/exams/{id}/finish", examHandler.Finish).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
