package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/steptracker/steptracker/internal/api"
	"github.com/steptracker/steptracker/internal/kv"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/refresh"
	"github.com/steptracker/steptracker/internal/repository/sqlite"
	"github.com/steptracker/steptracker/internal/services"
	"github.com/steptracker/steptracker/internal/testutil"
	"github.com/steptracker/steptracker/internal/testutil/mocks"
	"github.com/steptracker/steptracker/internal/timer"
)

type HandlersSuite struct {
	suite.Suite
	db      *sql.DB
	server  *httptest.Server
	queue   *mocks.MockJobQueue
	userID  string
	cookies []*http.Cookie
}

func (s *HandlersSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())

	attemptRepo := sqlite.NewAttemptRepository(s.db)
	draftRepo := sqlite.NewDraftRepository(s.db)
	questionRepo := sqlite.NewQuestionRepository(s.db)
	userRepo := sqlite.NewUserRepository(s.db)

	cache := kv.NewStore()
	timers := timer.NewRegistry()
	refresher := refresh.NewDebouncer(time.Hour)
	dashboard := services.NewDashboardService(attemptRepo, cache, time.Minute, 120, 5)

	s.queue = new(mocks.MockJobQueue)
	s.queue.On("EnqueueDashboardWarm", mock.Anything).Return(nil)

	srv := &api.Server{
		Users:         services.NewUserService(userRepo),
		Questions:     services.NewQuestionService(questionRepo),
		Attempts:      services.NewAttemptService(attemptRepo, draftRepo, timers, dashboard, refresher),
		Drafts:        services.NewDraftService(draftRepo, timers),
		Dashboard:     dashboard,
		Queue:         s.queue,
		Prefs:         cache,
		PriorityLimit: 10,
	}
	s.server = httptest.NewServer(srv.Routes())

	// Seed a signed-in user and a catalog entry
	user, err := userRepo.Upsert(context.Background(), "test@example.com")
	s.Require().NoError(err)
	s.userID = user.ID
	s.cookies = []*http.Cookie{{Name: "user_id", Value: user.ID}}

	s.Require().NoError(questionRepo.Upsert(context.Background(), models.Question{
		ID: "21-S1-Q4", Year: 21, Paper: 1, Number: 4, Tags: []string{"integration"},
	}))
}

func (s *HandlersSuite) TearDownTest() {
	s.server.Close()
	testutil.MustClose(s.T(), s.db)
}

func (s *HandlersSuite) request(method, path string, body any, authed bool) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		for _, c := range s.cookies {
			req.AddCookie(c)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *HandlersSuite) decode(resp *http.Response, dst any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(dst))
}

func (s *HandlersSuite) saveDraft(status models.Status, difficulty int) {
	resp := s.request(http.MethodPut, "/api/questions/21-S1-Q4/draft", map[string]any{
		"status":     string(status),
		"difficulty": difficulty,
	}, true)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
}

func (s *HandlersSuite) TestHealth() {
	resp := s.request(http.MethodGet, "/health", nil, false)
	resp.Body.Close()
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
}

func (s *HandlersSuite) TestCreateUser_SetsSessionCookie() {
	resp := s.request(http.MethodPost, "/api/users", map[string]string{"email": "new@example.com"}, false)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var user models.User
	s.decode(resp, &user)
	s.Assert().Equal("new@example.com", user.Email)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "user_id" {
			sessionCookie = c
		}
	}
	s.Require().NotNil(sessionCookie)
	s.Assert().Equal(user.ID, sessionCookie.Value)
	s.queue.AssertCalled(s.T(), "EnqueueDashboardWarm", user.ID)
}

func (s *HandlersSuite) TestCreateUser_InvalidEmail() {
	resp := s.request(http.MethodPost, "/api/users", map[string]string{"email": "nope"}, false)
	resp.Body.Close()
	s.Assert().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *HandlersSuite) TestListQuestions_SearchFilter() {
	resp := s.request(http.MethodGet, "/api/questions?q=s1-q4", nil, false)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var questions []models.Question
	s.decode(resp, &questions)
	s.Require().Len(questions, 1)
	s.Assert().Equal("21-S1-Q4", questions[0].ID)
}

func (s *HandlersSuite) TestGetQuestion_NotFound() {
	resp := s.request(http.MethodGet, "/api/questions/99-S9-Q9", nil, false)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Assert().Equal("NOT_FOUND", body.Error.Code)
}

func (s *HandlersSuite) TestCommit_RequiresSession() {
	resp := s.request(http.MethodPost, "/api/questions/21-S1-Q4/attempts", nil, false)
	resp.Body.Close()
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HandlersSuite) TestCommit_RejectsIncompleteDraft() {
	s.saveDraft(models.StatusAttempted, 3)

	resp := s.request(http.MethodPost, "/api/questions/21-S1-Q4/attempts", nil, true)
	resp.Body.Close()
	s.Assert().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *HandlersSuite) TestCommit_HappyPathClearsDraft() {
	s.saveDraft(models.StatusCompleted, 4)

	resp := s.request(http.MethodPost, "/api/questions/21-S1-Q4/attempts", nil, true)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var attempt models.Attempt
	s.decode(resp, &attempt)
	s.Assert().NotEmpty(attempt.Ref)
	s.Assert().Equal(models.StatusCompleted, attempt.Status)

	// The draft resets to its empty state
	resp = s.request(http.MethodGet, "/api/questions/21-S1-Q4/draft", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var draft models.Draft
	s.decode(resp, &draft)
	s.Assert().Equal(models.StatusNotStarted, draft.Status)
	s.Assert().Equal(0, draft.Difficulty)

	// And the attempt shows in history
	resp = s.request(http.MethodGet, "/api/questions/21-S1-Q4/attempts", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var history []models.Attempt
	s.decode(resp, &history)
	s.Require().Len(history, 1)
	s.Assert().Equal(attempt.Ref, history[0].Ref)
}

func (s *HandlersSuite) TestHistory_EmptyIsJSONArray() {
	resp := s.request(http.MethodGet, "/api/questions/21-S1-Q4/attempts", nil, true)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var raw bytes.Buffer
	_, err := raw.ReadFrom(resp.Body)
	s.Require().NoError(err)
	s.Assert().JSONEq("[]", raw.String())
}

func (s *HandlersSuite) TestDeleteAttempt_Idempotent() {
	s.saveDraft(models.StatusCompleted, 2)
	resp := s.request(http.MethodPost, "/api/questions/21-S1-Q4/attempts", nil, true)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var attempt models.Attempt
	s.decode(resp, &attempt)

	path := fmt.Sprintf("/api/attempts/%s", attempt.Ref)
	resp = s.request(http.MethodDelete, path, nil, true)
	resp.Body.Close()
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)

	// Deleting again still succeeds
	resp = s.request(http.MethodDelete, path, nil, true)
	resp.Body.Close()
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)

	// History of the question is now an empty list, not an error
	resp = s.request(http.MethodGet, "/api/questions/21-S1-Q4/attempts", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var history []models.Attempt
	s.decode(resp, &history)
	s.Assert().Empty(history)
}

func (s *HandlersSuite) TestTimer_StartStopFlow() {
	resp := s.request(http.MethodPost, "/api/questions/21-S1-Q4/timer/start", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var state services.TimerState
	s.decode(resp, &state)
	s.Assert().True(state.Running)

	resp = s.request(http.MethodPost, "/api/questions/21-S1-Q4/timer/stop", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &state)
	s.Assert().False(state.Running)

	// The stop landed in the draft
	resp = s.request(http.MethodGet, "/api/questions/21-S1-Q4/draft", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var draft models.Draft
	s.decode(resp, &draft)
	s.Assert().Equal(models.StatusAttempted, draft.Status)
}

func (s *HandlersSuite) TestDashboard_RequiresSession() {
	resp := s.request(http.MethodGet, "/api/dashboard", nil, false)
	resp.Body.Close()
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HandlersSuite) TestDashboard_RendersAllSections() {
	s.saveDraft(models.StatusCompleted, 5)
	resp := s.request(http.MethodPost, "/api/questions/21-S1-Q4/attempts", nil, true)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.request(http.MethodGet, "/api/dashboard", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var dashboard struct {
		Summary models.Summary `json:"summary"`
		Priority []struct {
			QuestionID string `json:"question_id"`
			Score      int    `json:"score"`
		} `json:"priority"`
		Heatmap []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
			Level int    `json:"level"`
		} `json:"heatmap"`
		HardestTag string `json:"hardest_tag"`
	}
	s.decode(resp, &dashboard)

	s.Assert().Equal(1, dashboard.Summary.Attempted)
	s.Assert().Equal(1, dashboard.Summary.Completed)
	s.Assert().Equal("integration", dashboard.HardestTag)
	s.Require().Len(dashboard.Heatmap, 120)

	// Today's cell records the commit
	last := dashboard.Heatmap[len(dashboard.Heatmap)-1]
	s.Assert().Equal(time.Now().UTC().Format("2006-01-02"), last.Date)
	s.Assert().Equal(1, last.Count)
	s.Assert().Equal(1, last.Level)

	// Difficulty 5 and not slow and completed => score 2
	s.Require().Len(dashboard.Priority, 1)
	s.Assert().Equal(2, dashboard.Priority[0].Score)
}

func (s *HandlersSuite) TestThemePrefs_RoundTrip() {
	resp := s.request(http.MethodGet, "/api/prefs/theme", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var pref map[string]string
	s.decode(resp, &pref)
	s.Assert().Equal("light", pref["theme"])

	resp = s.request(http.MethodPut, "/api/prefs/theme", map[string]string{"theme": "dark"}, true)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/prefs/theme", nil, true)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &pref)
	s.Assert().Equal("dark", pref["theme"])
}

func (s *HandlersSuite) TestThemePrefs_RejectsUnknownTheme() {
	resp := s.request(http.MethodPut, "/api/prefs/theme", map[string]string{"theme": "sepia"}, true)
	resp.Body.Close()
	s.Assert().Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *HandlersSuite) TestLogout_ClearsCookie() {
	resp := s.request(http.MethodPost, "/api/logout", nil, true)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var cleared *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "user_id" {
			cleared = c
		}
	}
	s.Require().NotNil(cleared)
	s.Assert().Empty(cleared.Value)
	s.Assert().True(cleared.MaxAge < 0)
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}
