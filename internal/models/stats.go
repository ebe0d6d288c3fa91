package models

import "time"

// NoData is the sentinel shown when an average has nothing to average over.
const NoData = "-"

// Summary holds the dashboard's headline numbers.
type Summary struct {
	Attempted      int    `json:"attempted"`
	Completed      int    `json:"completed"`
	AvgTimeMinutes int    `json:"avg_time_minutes"`
	AvgDifficulty  string `json:"avg_difficulty"` // one decimal place, or NoData
}

// PriorityItem ranks a question's need for review. Score is 0-4, derived
// from the latest attempt on the question.
type PriorityItem struct {
	QuestionID string `json:"question_id"`
	Score      int    `json:"score"`
}

// RecentQuestion is a most-recently-touched question, not a recent attempt:
// each question appears at most once.
type RecentQuestion struct {
	QuestionID string `json:"question_id"`
	Date       string `json:"date"` // YYYY-MM-DD of the latest attempt
}

// HeatmapDay is one cell of the calendar activity strip. Count is the raw
// attempt count; intensity clamping is a presentation concern.
type HeatmapDay struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

// ChartPoint is one sample of a dashboard line chart, in chronological order.
type ChartPoint struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// Dashboard bundles everything the dashboard page renders.
type Dashboard struct {
	Summary          Summary          `json:"summary"`
	Priority         []PriorityItem   `json:"priority"`
	Recent           []RecentQuestion `json:"recent"`
	Heatmap          []HeatmapDay     `json:"heatmap"`
	HardestTag       string           `json:"hardest_tag"`
	TimeSeries       []ChartPoint     `json:"time_series"`       // minutes
	DifficultySeries []ChartPoint     `json:"difficulty_series"` // ratings
	GeneratedAt      time.Time        `json:"generated_at"`
}
