package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the progress state recorded on an attempt or draft.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusAttempted  Status = "attempted"
	StatusCompleted  Status = "completed"
	StatusRevision   Status = "revision"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNotStarted, StatusAttempted, StatusCompleted, StatusRevision:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Valid reports whether the status is one of the four known states.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Attempt is one immutable record of a user's effort on a question.
// CreatedAt is assigned by the store at append time and is the sole
// ordering key; attempts are never updated in place, only deleted.
type Attempt struct {
	Ref         string    `json:"ref"`
	UserID      string    `json:"user_id"`
	QuestionID  string    `json:"question_id"`
	Status      Status    `json:"status"`
	TimeSeconds *int      `json:"time,omitempty"`
	Difficulty  int       `json:"difficulty,omitempty"` // 1-5, 0 means unrated
	Notes       string    `json:"notes"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasTime reports whether a time was recorded; attempts without one are
// excluded from time averages.
func (a Attempt) HasTime() bool {
	return a.TimeSeconds != nil && *a.TimeSeconds >= 0
}

// Rated reports whether the attempt carries a difficulty rating.
func (a Attempt) Rated() bool {
	return a.Difficulty > 0
}

// UnmarshalJSON tolerates legacy timestamp encodings: RFC 3339 strings,
// unix-second numbers, and {"seconds": N} objects all decode into CreatedAt.
func (a *Attempt) UnmarshalJSON(data []byte) error {
	type alias Attempt
	aux := struct {
		*alias
		CreatedAt flexTime `json:"created_at"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.CreatedAt = time.Time(aux.CreatedAt)
	return nil
}

// flexTime decodes the timestamp shapes seen in exported attempt data.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		*t = flexTime(parsed)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err == nil {
		*t = flexTime(time.Unix(int64(secs), 0).UTC())
		return nil
	}

	var obj struct {
		Seconds int64 `json:"seconds"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*t = flexTime(time.Unix(obj.Seconds, 0).UTC())
		return nil
	}

	return fmt.Errorf("unrecognized timestamp: %s", data)
}
