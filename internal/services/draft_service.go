package services

import (
	"context"

	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
	"github.com/steptracker/steptracker/internal/timer"
)

// TimerState is the current stopwatch reading for a question.
type TimerState struct {
	ElapsedSeconds int  `json:"elapsed_seconds"`
	Running        bool `json:"running"`
}

// DraftService handles the working copy of an in-progress attempt and the
// practice stopwatch feeding it.
type DraftService interface {
	Get(ctx context.Context, userID, questionID string) (models.Draft, error)
	Save(ctx context.Context, draft models.Draft) error
	Clear(ctx context.Context, userID, questionID string) error
	StartTimer(ctx context.Context, userID, questionID string) (TimerState, error)
	StopTimer(ctx context.Context, userID, questionID string) (TimerState, error)
	Timer(ctx context.Context, userID, questionID string) (TimerState, error)
}

type draftService struct {
	drafts repository.DraftRepository
	timers *timer.Registry
}

// NewDraftService creates a new DraftService.
func NewDraftService(drafts repository.DraftRepository, timers *timer.Registry) DraftService {
	return &draftService{drafts: drafts, timers: timers}
}

func (s *draftService) Get(ctx context.Context, userID, questionID string) (models.Draft, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting draft: user_id=%s, question_id=%s", userID, questionID)

	if !models.ValidQuestionID(questionID) {
		return models.Draft{}, apperr.Validation("question_id", "malformed identifier")
	}

	draft, err := s.drafts.Get(ctx, userID, questionID)
	if err != nil {
		log.Error("failed to get draft: %v", err)
		return models.Draft{}, apperr.Internal(err)
	}
	if draft == nil {
		return models.EmptyDraft(userID, questionID), nil
	}
	return *draft, nil
}

func (s *draftService) Save(ctx context.Context, draft models.Draft) error {
	log := logger.FromContext(ctx)
	log.Debug("saving draft: user_id=%s, question_id=%s", draft.UserID, draft.QuestionID)

	if !models.ValidQuestionID(draft.QuestionID) {
		return apperr.Validation("question_id", "malformed identifier")
	}
	if draft.Status == "" {
		draft.Status = models.StatusNotStarted
	}
	if !draft.Status.Valid() {
		return apperr.Validation("status", "unknown status")
	}
	if draft.Difficulty < 0 || draft.Difficulty > 5 {
		return apperr.Validation("difficulty", "must be between 0 and 5")
	}
	if draft.ElapsedSeconds < 0 {
		return apperr.Validation("elapsed_seconds", "must not be negative")
	}

	if err := s.drafts.Put(ctx, draft); err != nil {
		log.Error("failed to save draft: %v", err)
		return apperr.Internal(err)
	}
	return nil
}

func (s *draftService) Clear(ctx context.Context, userID, questionID string) error {
	log := logger.FromContext(ctx)
	log.Debug("clearing draft: user_id=%s, question_id=%s", userID, questionID)

	if err := s.drafts.Delete(ctx, userID, questionID); err != nil {
		log.Error("failed to clear draft: %v", err)
		return apperr.Internal(err)
	}
	s.timers.Reset(userID, questionID)
	return nil
}

// StartTimer begins timing the question. A stopwatch already running on a
// different question is stopped first and its elapsed time is folded into
// that question's draft, never into the new one's.
func (s *draftService) StartTimer(ctx context.Context, userID, questionID string) (TimerState, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting timer: user_id=%s, question_id=%s", userID, questionID)

	if !models.ValidQuestionID(questionID) {
		return TimerState{}, apperr.Validation("question_id", "malformed identifier")
	}

	if displaced := s.timers.Start(userID, questionID); displaced != nil {
		log.Debug("timer displaced: question_id=%s, elapsed=%ds", displaced.QuestionID, displaced.ElapsedSeconds)
		if err := s.flushElapsed(ctx, userID, displaced.QuestionID, displaced.ElapsedSeconds); err != nil {
			log.Warn("failed to flush displaced timer into draft: %v", err)
		}
	}

	seconds, running := s.timers.Elapsed(userID, questionID)
	return TimerState{ElapsedSeconds: seconds, Running: running}, nil
}

func (s *draftService) StopTimer(ctx context.Context, userID, questionID string) (TimerState, error) {
	log := logger.FromContext(ctx)
	log.Debug("stopping timer: user_id=%s, question_id=%s", userID, questionID)

	seconds, wasRunning := s.timers.Stop(userID, questionID)
	if wasRunning {
		if err := s.flushElapsed(ctx, userID, questionID, seconds); err != nil {
			log.Error("failed to flush timer into draft: %v", err)
			return TimerState{}, apperr.Internal(err)
		}
	}
	return TimerState{ElapsedSeconds: seconds, Running: false}, nil
}

func (s *draftService) Timer(ctx context.Context, userID, questionID string) (TimerState, error) {
	seconds, running := s.timers.Elapsed(userID, questionID)
	return TimerState{ElapsedSeconds: seconds, Running: running}, nil
}

// flushElapsed writes a stopwatch reading into the question's draft,
// creating the draft if the user never edited one.
func (s *draftService) flushElapsed(ctx context.Context, userID, questionID string, seconds int) error {
	draft, err := s.drafts.Get(ctx, userID, questionID)
	if err != nil {
		return err
	}
	if draft == nil {
		d := models.EmptyDraft(userID, questionID)
		draft = &d
	}
	if draft.Status == models.StatusNotStarted {
		draft.Status = models.StatusAttempted
	}
	draft.ElapsedSeconds = seconds
	return s.drafts.Put(ctx, *draft)
}
