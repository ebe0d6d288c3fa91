package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.userMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users", s.handleListUsers)
		r.Post("/users/{id}/select", s.handleSelectUser)
		r.Post("/logout", s.handleLogout)

		r.Get("/questions", s.handleListQuestions)
		r.Get("/questions/{id}", s.handleGetQuestion)

		r.Get("/questions/{id}/attempts", s.handleQuestionHistory)
		r.Post("/questions/{id}/attempts", s.handleCommitAttempt)
		r.Delete("/attempts/{ref}", s.handleDeleteAttempt)

		r.Get("/questions/{id}/draft", s.handleGetDraft)
		r.Put("/questions/{id}/draft", s.handleSaveDraft)
		r.Delete("/questions/{id}/draft", s.handleClearDraft)

		r.Post("/questions/{id}/timer/start", s.handleStartTimer)
		r.Post("/questions/{id}/timer/stop", s.handleStopTimer)
		r.Get("/questions/{id}/timer", s.handleGetTimer)

		r.Get("/dashboard", s.handleDashboard)

		r.Get("/prefs/theme", s.handleGetTheme)
		r.Put("/prefs/theme", s.handleSetTheme)
	})

	return r
}
