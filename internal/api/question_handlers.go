package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/steptracker/steptracker/internal/models"
)

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	filter := models.QuestionFilter{
		Search: r.URL.Query().Get("q"),
	}
	if v := r.URL.Query().Get("year"); v != "" {
		filter.Year, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("paper"); v != "" {
		filter.Paper, _ = strconv.Atoi(v)
	}

	questions, err := s.Questions.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, questions)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := s.Questions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, question)
}
