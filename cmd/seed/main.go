package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"quizbattle/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	file := os.Getenv("QUESTION_FILE")
	if file == "" {
		file = "data/question.json"
	}

	questions, err := repository.LoadQuestionFile(file)
	if err != nil {
		log.Fatalf("Failed to load question file: %v", err)
	}
	if len(questions) == 0 {
		log.Fatal("Question file is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database("quizbattle").Collection("questions")

	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		docs[i] = q
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		log.Fatalf("Failed to insert questions: %v", err)
	}

	fmt.Printf("Seeded %d questions from %s\n", len(questions), file)
}
