package api

import (
	"github.com/steptracker/steptracker/internal/db"
	"github.com/steptracker/steptracker/internal/jobs"
	"github.com/steptracker/steptracker/internal/kv"
	"github.com/steptracker/steptracker/internal/services"
)

// Server bundles the HTTP surface's dependencies. Handlers hang off it
// and stay thin; the services own the behavior.
type Server struct {
	DB        *db.DB
	Users     services.UserService
	Questions services.QuestionService
	Attempts  services.AttemptService
	Drafts    services.DraftService
	Dashboard services.DashboardService
	Queue     jobs.JobQueue
	Prefs     *kv.Store

	// PriorityLimit truncates the dashboard's priority list for display;
	// the aggregator itself ranks every question.
	PriorityLimit int
}
