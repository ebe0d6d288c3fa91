package services

import (
	"context"

	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
)

// QuestionService serves the question catalog.
type QuestionService interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	Get(ctx context.Context, id string) (models.Question, error)
}

type questionService struct {
	questions repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions repository.QuestionRepository) QuestionService {
	return &questionService{questions: questions}
}

func (s *questionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing questions: search=%q", filter.Search)

	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		log.Error("failed to list questions: %v", err)
		return nil, apperr.Internal(err)
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}

func (s *questionService) Get(ctx context.Context, id string) (models.Question, error) {
	log := logger.FromContext(ctx)

	if !models.ValidQuestionID(id) {
		return models.Question{}, apperr.Validation("question_id", "malformed identifier")
	}

	question, err := s.questions.Get(ctx, id)
	if err != nil {
		log.Error("failed to get question: %v", err)
		return models.Question{}, apperr.Internal(err)
	}
	if question == nil {
		return models.Question{}, apperr.NotFound("question", id)
	}
	return *question, nil
}
