// Package timer tracks how long a user has been working on a question.
// Each user has at most one running stopwatch: starting a stopwatch on a
// new question stops the previous one, and the caller gets the displaced
// question's elapsed time back so it can be folded into that question's
// draft.
package timer

import (
	"sync"
	"time"
)

type stopwatch struct {
	running     bool
	startedAt   time.Time
	accumulated time.Duration
}

func (w *stopwatch) elapsed(now time.Time) time.Duration {
	d := w.accumulated
	if w.running {
		d += now.Sub(w.startedAt)
	}
	return d
}

// Stopped describes a stopwatch that Start displaced.
type Stopped struct {
	QuestionID     string
	ElapsedSeconds int
}

// Registry holds all users' stopwatches. Safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	users  map[string]map[string]*stopwatch
	active map[string]string
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		users:  make(map[string]map[string]*stopwatch),
		active: make(map[string]string),
		now:    time.Now,
	}
}

func (r *Registry) watch(userID, questionID string) *stopwatch {
	byQuestion, ok := r.users[userID]
	if !ok {
		byQuestion = make(map[string]*stopwatch)
		r.users[userID] = byQuestion
	}
	w, ok := byQuestion[questionID]
	if !ok {
		w = &stopwatch{}
		byQuestion[questionID] = w
	}
	return w
}

// Start begins timing a question. Starting an already-running stopwatch
// does nothing. If another question's stopwatch was running for this user
// it is stopped first, and its final reading is returned.
func (r *Registry) Start(userID, questionID string) *Stopped {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()

	var displaced *Stopped
	if activeQ, ok := r.active[userID]; ok {
		if activeQ == questionID {
			return nil
		}
		prev := r.watch(userID, activeQ)
		prev.accumulated = prev.elapsed(now)
		prev.running = false
		displaced = &Stopped{
			QuestionID:     activeQ,
			ElapsedSeconds: int(prev.accumulated / time.Second),
		}
	}

	w := r.watch(userID, questionID)
	w.running = true
	w.startedAt = now
	r.active[userID] = questionID
	return displaced
}

// Stop halts the question's stopwatch and returns the total elapsed
// seconds. Stopping a stopwatch that is not running just reports its
// current reading.
func (r *Registry) Stop(userID, questionID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()

	w := r.watch(userID, questionID)
	wasRunning := w.running
	if wasRunning {
		w.accumulated = w.elapsed(now)
		w.running = false
		if r.active[userID] == questionID {
			delete(r.active, userID)
		}
	}
	return int(w.accumulated / time.Second), wasRunning
}

// Elapsed reports the stopwatch's current reading without changing it.
func (r *Registry) Elapsed(userID, questionID string) (seconds int, running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byQuestion, ok := r.users[userID]
	if !ok {
		return 0, false
	}
	w, ok := byQuestion[questionID]
	if !ok {
		return 0, false
	}
	return int(w.elapsed(r.now()) / time.Second), w.running
}

// Reset discards the stopwatch, typically after its reading has been
// committed into an attempt.
func (r *Registry) Reset(userID, questionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byQuestion, ok := r.users[userID]; ok {
		delete(byQuestion, questionID)
		if len(byQuestion) == 0 {
			delete(r.users, userID)
		}
	}
	if r.active[userID] == questionID {
		delete(r.active, userID)
	}
}
