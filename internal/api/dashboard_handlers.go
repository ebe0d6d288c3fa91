package api

import (
	"net/http"

	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/models"
)

// heatCell adds the display intensity to a raw heatmap count. Levels are
// clamped to 0-4 so a heavy day doesn't invent a fifth shade.
type heatCell struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

func heatLevel(count int) int {
	if count > 4 {
		return 4
	}
	if count < 0 {
		return 0
	}
	return count
}

type dashboardResponse struct {
	Summary          models.Summary          `json:"summary"`
	Priority         []models.PriorityItem   `json:"priority"`
	Recent           []models.RecentQuestion `json:"recent"`
	Heatmap          []heatCell              `json:"heatmap"`
	HardestTag       string                  `json:"hardest_tag"`
	TimeSeries       []models.ChartPoint     `json:"time_series"`
	DifficultySeries []models.ChartPoint     `json:"difficulty_series"`
	GeneratedAt      string                  `json:"generated_at"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r.Context())
	if userID == "" {
		handleError(w, r, apperr.Unauthorized("sign in to view the dashboard"))
		return
	}

	dashboard, err := s.Dashboard.Get(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	priority := dashboard.Priority
	if s.PriorityLimit > 0 && len(priority) > s.PriorityLimit {
		priority = priority[:s.PriorityLimit]
	}

	heatmap := make([]heatCell, 0, len(dashboard.Heatmap))
	for _, day := range dashboard.Heatmap {
		heatmap = append(heatmap, heatCell{
			Date:  day.Date,
			Count: day.Count,
			Level: heatLevel(day.Count),
		})
	}

	respondJSON(w, http.StatusOK, dashboardResponse{
		Summary:          dashboard.Summary,
		Priority:         priority,
		Recent:           dashboard.Recent,
		Heatmap:          heatmap,
		HardestTag:       dashboard.HardestTag,
		TimeSeries:       dashboard.TimeSeries,
		DifficultySeries: dashboard.DifficultySeries,
		GeneratedAt:      dashboard.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
