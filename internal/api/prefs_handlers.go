package api

import (
	"fmt"
	"net/http"

	"github.com/steptracker/steptracker/internal/apperr"
)

func themeKey(userID string) string {
	return fmt.Sprintf("prefs:theme:%s", userID)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to read preferences"))
		return
	}

	theme := "light"
	if _, err := s.Prefs.Get(themeKey(userID), &theme); err != nil {
		handleError(w, r, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to save preferences"))
		return
	}

	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		handleError(w, r, apperr.Validation("theme", "must be light or dark"))
		return
	}

	// Preferences never expire
	if err := s.Prefs.Set(themeKey(userID), req.Theme, 0); err != nil {
		handleError(w, r, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
