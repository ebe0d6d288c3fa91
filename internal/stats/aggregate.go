// Package stats derives dashboard summaries from raw attempt records.
// Everything here is pure and stateless: functions re-derive their output
// from the input on every call, never touch I/O, and are safe to call
// concurrently. Records missing a question id or timestamp violate the
// input contract and are skipped; missing optional fields (time,
// difficulty, tags) just drop the record from the relevant computation.
package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/steptracker/steptracker/internal/models"
)

// DefaultRecentLimit bounds ComputeRecentQuestions when the caller passes
// a non-positive limit.
const DefaultRecentLimit = 5

// Priority scoring thresholds: a question is worth reviewing when its
// latest attempt was rated hard, took long, or was left unfinished.
const (
	hardDifficulty = 4
	slowSeconds    = 1200 // 20 minutes
)

func wellFormed(a models.Attempt) bool {
	return a.QuestionID != "" && !a.CreatedAt.IsZero()
}

// ComputeSummary returns the headline counts and averages. It never divides
// by zero: with no timed attempts AvgTimeMinutes is 0, and with no rated
// attempts AvgDifficulty is the NoData sentinel.
func ComputeSummary(attempts []models.Attempt) models.Summary {
	attempted := make(map[string]struct{})
	completed := make(map[string]struct{})
	var totalSeconds, timed int
	var totalDifficulty, rated int

	for _, a := range attempts {
		if !wellFormed(a) {
			continue
		}
		attempted[a.QuestionID] = struct{}{}
		if a.Status == models.StatusCompleted {
			completed[a.QuestionID] = struct{}{}
		}
		if a.HasTime() {
			totalSeconds += *a.TimeSeconds
			timed++
		}
		if a.Rated() {
			totalDifficulty += a.Difficulty
			rated++
		}
	}

	s := models.Summary{
		Attempted:     len(attempted),
		Completed:     len(completed),
		AvgDifficulty: models.NoData,
	}
	if timed > 0 {
		s.AvgTimeMinutes = int(math.Round(float64(totalSeconds) / float64(timed) / 60))
	}
	if rated > 0 {
		mean := float64(totalDifficulty) / float64(rated)
		s.AvgDifficulty = strconv.FormatFloat(mean, 'f', 1, 64)
	}
	return s
}

// ComputePriorityList scores each question by its latest attempt and returns
// every question with a positive score, highest first. Equal scores order by
// question id ascending so the result is deterministic. The caller truncates
// for presentation; the full list is returned here.
func ComputePriorityList(attempts []models.Attempt) []models.PriorityItem {
	latest := make(map[string]models.Attempt)
	for _, a := range attempts {
		if !wellFormed(a) {
			continue
		}
		if prev, ok := latest[a.QuestionID]; !ok || a.CreatedAt.After(prev.CreatedAt) {
			latest[a.QuestionID] = a
		}
	}

	var items []models.PriorityItem
	for qid, a := range latest {
		score := 0
		if a.Difficulty >= hardDifficulty {
			score += 2
		}
		if a.HasTime() && *a.TimeSeconds > slowSeconds {
			score++
		}
		if a.Status != models.StatusCompleted {
			score++
		}
		if score > 0 {
			items = append(items, models.PriorityItem{QuestionID: qid, Score: score})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].QuestionID < items[j].QuestionID
	})
	return items
}

// ComputeRecentQuestions emits the first `limit` distinct questions in
// encounter order. The input must already be ordered by CreatedAt descending
// (the store's list operations guarantee this), so the result is the set of
// most recently touched questions, not most recent attempts.
func ComputeRecentQuestions(attempts []models.Attempt, limit int) []models.RecentQuestion {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	seen := make(map[string]struct{})
	var recent []models.RecentQuestion
	for _, a := range attempts {
		if !wellFormed(a) {
			continue
		}
		if _, ok := seen[a.QuestionID]; ok {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		recent = append(recent, models.RecentQuestion{
			QuestionID: a.QuestionID,
			Date:       dayKey(a.CreatedAt),
		})
		if len(recent) >= limit {
			break
		}
	}
	return recent
}

// ComputeHeatmap buckets attempts into UTC calendar days and returns exactly
// windowDays entries ending on today (inclusive), oldest first, with zero
// counts for quiet days. Counts are raw; intensity clamping belongs to the
// presenter.
func ComputeHeatmap(attempts []models.Attempt, windowDays int, today time.Time) []models.HeatmapDay {
	if windowDays <= 0 {
		windowDays = 1
	}

	counts := make(map[string]int)
	for _, a := range attempts {
		if !wellFormed(a) {
			continue
		}
		counts[dayKey(a.CreatedAt)]++
	}

	days := make([]models.HeatmapDay, 0, windowDays)
	start := today.UTC().AddDate(0, 0, -(windowDays - 1))
	for i := 0; i < windowDays; i++ {
		key := dayKey(start.AddDate(0, 0, i))
		days = append(days, models.HeatmapDay{Date: key, Count: counts[key]})
	}
	return days
}

// ComputeHardestTag returns the tag with the highest mean difficulty over
// attempts that carry both tags and a rating. Ties break toward the
// lexicographically smallest tag; with no tagged, rated attempts the NoData
// sentinel comes back.
func ComputeHardestTag(attempts []models.Attempt) string {
	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, a := range attempts {
		if !wellFormed(a) || !a.Rated() {
			continue
		}
		for _, tag := range a.Tags {
			totals[tag] += a.Difficulty
			counts[tag]++
		}
	}
	if len(counts) == 0 {
		return models.NoData
	}

	hardest := models.NoData
	best := -1.0
	for tag, count := range counts {
		mean := float64(totals[tag]) / float64(count)
		if mean > best || (mean == best && tag < hardest) {
			best = mean
			hardest = tag
		}
	}
	return hardest
}

// TimeSeries returns minutes spent per timed attempt in chronological order,
// for the dashboard's time line chart.
func TimeSeries(attempts []models.Attempt) []models.ChartPoint {
	var points []models.ChartPoint
	for _, a := range attempts {
		if !wellFormed(a) || !a.HasTime() {
			continue
		}
		points = append(points, models.ChartPoint{
			At:    a.CreatedAt,
			Value: float64(*a.TimeSeconds) / 60,
		})
	}
	sortPoints(points)
	return points
}

// DifficultySeries returns difficulty ratings per rated attempt in
// chronological order, for the dashboard's difficulty line chart.
func DifficultySeries(attempts []models.Attempt) []models.ChartPoint {
	var points []models.ChartPoint
	for _, a := range attempts {
		if !wellFormed(a) || !a.Rated() {
			continue
		}
		points = append(points, models.ChartPoint{
			At:    a.CreatedAt,
			Value: float64(a.Difficulty),
		})
	}
	sortPoints(points)
	return points
}

func sortPoints(points []models.ChartPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].At.Before(points[j].At)
	})
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
