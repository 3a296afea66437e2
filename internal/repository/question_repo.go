package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quizbattle/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionRepo supplies the question bank the battle core draws from.
type QuestionRepo interface {
	GetAll(ctx context.Context) ([]model.Question, error)
}

type fileQuestionRepo struct {
	path string
}

// NewFileQuestionRepo reads the bank from a JSON file on disk.
func NewFileQuestionRepo(path string) QuestionRepo {
	return &fileQuestionRepo{path: path}
}

func (r *fileQuestionRepo) GetAll(ctx context.Context) ([]model.Question, error) {
	return LoadQuestionFile(r.path)
}

// LoadQuestionFile parses a JSON array of {"q": statement, "a": truth} pairs.
// Shared with cmd/seed.
func LoadQuestionFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question file %s: %w", path, err)
	}
	return questions, nil
}

type mongoQuestionRepo struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepo reads the bank from the questions collection.
func NewMongoQuestionRepo(client *mongo.Client) QuestionRepo {
	db := client.Database("quizbattle")
	return &mongoQuestionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *mongoQuestionRepo) GetAll(ctx context.Context) ([]model.Question, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
