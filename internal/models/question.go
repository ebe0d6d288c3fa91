package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// Question is one catalog entry: a past-paper question identified by exam
// year, paper number, and question number.
type Question struct {
	ID        string   `json:"id"`
	Year      int      `json:"year"`
	Paper     int      `json:"paper"`
	Number    int      `json:"question"`
	Tags      []string `json:"tags,omitempty"`
	ImagePath string   `json:"image_path,omitempty"`
}

// Question identifiers look like "25-S2-Q7": two-digit year, paper, number.
var questionIDRe = regexp.MustCompile(`^(\d{2})-S(\d+)-Q(\d+)$`)

// MakeQuestionID builds the composite identifier for a question.
func MakeQuestionID(year, paper, number int) string {
	return fmt.Sprintf("%02d-S%d-Q%d", year%100, paper, number)
}

// ParseQuestionID splits a composite identifier into its parts. The year
// comes back as the two-digit value encoded in the identifier.
func ParseQuestionID(id string) (year, paper, number int, err error) {
	m := questionIDRe.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("malformed question id %q", id)
	}
	year, _ = strconv.Atoi(m[1])
	paper, _ = strconv.Atoi(m[2])
	number, _ = strconv.Atoi(m[3])
	return year, paper, number, nil
}

// ValidQuestionID reports whether id matches the composite format.
func ValidQuestionID(id string) bool {
	return questionIDRe.MatchString(id)
}
