package service

import (
	"context"
	"fmt"
	"math/rand"

	"quizbattle/internal/model"
	"quizbattle/internal/repository"
)

// QuestionSource hands out one question per round.
type QuestionSource interface {
	Next() model.Question
}

// QuestionService serves uniformly random questions from a bank loaded once
// at startup.
type QuestionService struct {
	questions []model.Question
}

// NewQuestionService loads the full bank from the repository. An empty bank
// is a startup error; the server must not accept connections without one.
func NewQuestionService(ctx context.Context, repo repository.QuestionRepo) (*QuestionService, error) {
	questions, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}
	return &QuestionService{questions: questions}, nil
}

// Next returns a random question by value; the bank itself is never mutated.
func (s *QuestionService) Next() model.Question {
	return s.questions[rand.Intn(len(s.questions))]
}

func (s *QuestionService) Count() int {
	return len(s.questions)
}
