package services

import (
	"context"

	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/refresh"
	"github.com/steptracker/steptracker/internal/repository"
	"github.com/steptracker/steptracker/internal/timer"
)

// AttemptService commits drafts into the immutable attempt log and serves
// per-question history.
type AttemptService interface {
	// Commit turns the question's current draft into a completed attempt.
	// The draft must have status completed and a difficulty rating.
	Commit(ctx context.Context, userID, questionID string) (models.Attempt, error)
	// History returns the question's completed attempts, newest first.
	History(ctx context.Context, userID, questionID string) ([]models.Attempt, error)
	// Delete removes one attempt by reference. Deleting twice succeeds.
	Delete(ctx context.Context, userID, ref string) error
}

type attemptService struct {
	attempts  repository.AttemptRepository
	drafts    repository.DraftRepository
	timers    *timer.Registry
	dashboard DashboardService
	refresher *refresh.Debouncer
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attempts repository.AttemptRepository,
	drafts repository.DraftRepository,
	timers *timer.Registry,
	dashboard DashboardService,
	refresher *refresh.Debouncer,
) AttemptService {
	return &attemptService{
		attempts:  attempts,
		drafts:    drafts,
		timers:    timers,
		dashboard: dashboard,
		refresher: refresher,
	}
}

func (s *attemptService) Commit(ctx context.Context, userID, questionID string) (models.Attempt, error) {
	log := logger.FromContext(ctx)
	log.Debug("committing draft: user_id=%s, question_id=%s", userID, questionID)

	if userID == "" {
		return models.Attempt{}, apperr.Unauthorized("sign in to log attempts")
	}
	if !models.ValidQuestionID(questionID) {
		return models.Attempt{}, apperr.Validation("question_id", "malformed identifier")
	}

	// A running stopwatch contributes its reading before the commit.
	if seconds, wasRunning := s.timers.Stop(userID, questionID); wasRunning {
		log.Debug("stopwatch folded into commit: elapsed=%ds", seconds)
	}

	draft, err := s.drafts.Get(ctx, userID, questionID)
	if err != nil {
		log.Error("failed to load draft for commit: %v", err)
		return models.Attempt{}, apperr.Internal(err)
	}
	if draft == nil {
		return models.Attempt{}, apperr.Validation("draft", "nothing to commit")
	}

	// Prefer the live stopwatch reading over whatever the draft last saw.
	if seconds, _ := s.timers.Elapsed(userID, questionID); seconds > draft.ElapsedSeconds {
		draft.ElapsedSeconds = seconds
	}

	if !draft.Committable() {
		return models.Attempt{}, apperr.Validation("draft", "status must be completed and difficulty must be rated")
	}

	attempt := models.Attempt{
		UserID:     userID,
		QuestionID: questionID,
		Status:     models.StatusCompleted,
		Difficulty: draft.Difficulty,
		Notes:      draft.Notes,
	}
	if draft.ElapsedSeconds > 0 {
		secs := draft.ElapsedSeconds
		attempt.TimeSeconds = &secs
	}

	saved, err := s.attempts.Append(ctx, attempt)
	if err != nil {
		// The draft stays put so nothing typed is lost.
		log.Error("failed to append attempt: %v", err)
		return models.Attempt{}, apperr.Internal(err)
	}

	if err := s.drafts.Delete(ctx, userID, questionID); err != nil {
		log.Warn("attempt committed but draft not cleared: %v", err)
	}
	s.timers.Reset(userID, questionID)

	s.dashboard.Invalidate(userID)
	s.refresher.Trigger(userID, func() {
		if err := s.dashboard.Warm(context.Background(), userID); err != nil {
			log.Warn("dashboard warm after commit failed: %v", err)
		}
	})

	log.Info("attempt committed: ref=%s, question_id=%s", saved.Ref, questionID)
	return saved, nil
}

func (s *attemptService) History(ctx context.Context, userID, questionID string) ([]models.Attempt, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading history: user_id=%s, question_id=%s", userID, questionID)

	if !models.ValidQuestionID(questionID) {
		return nil, apperr.Validation("question_id", "malformed identifier")
	}

	attempts, err := s.attempts.ListCompleted(ctx, userID, questionID)
	if err != nil {
		log.Error("failed to load history: %v", err)
		return nil, apperr.Internal(err)
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	return attempts, nil
}

func (s *attemptService) Delete(ctx context.Context, userID, ref string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting attempt: user_id=%s, ref=%s", userID, ref)

	if userID == "" {
		return apperr.Unauthorized("sign in to delete attempts")
	}

	attempt, err := s.attempts.Get(ctx, ref)
	if err != nil {
		log.Error("failed to load attempt for delete: %v", err)
		return apperr.Internal(err)
	}
	if attempt == nil {
		// Already gone; repeat deletes succeed.
		return nil
	}
	if attempt.UserID != userID {
		return apperr.NotFound("attempt", ref)
	}

	if err := s.attempts.Delete(ctx, ref); err != nil {
		log.Error("failed to delete attempt: %v", err)
		return apperr.Internal(err)
	}

	s.dashboard.Invalidate(userID)
	s.refresher.Trigger(userID, func() {
		if err := s.dashboard.Warm(context.Background(), userID); err != nil {
			log.Warn("dashboard warm after delete failed: %v", err)
		}
	})
	return nil
}
