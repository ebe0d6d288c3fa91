package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
	"github.com/steptracker/steptracker/internal/repository/sqlite"
	"github.com/steptracker/steptracker/internal/testutil"
)

type DraftRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.DraftRepository
}

func (s *DraftRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDraftRepository(s.db)
}

func (s *DraftRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DraftRepositorySuite) setupUser() string {
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)`,
		"user-1", "test@example.com", time.Now().UTC())
	s.Require().NoError(err)
	return "user-1"
}

func (s *DraftRepositorySuite) TestPutThenGet() {
	ctx := context.Background()
	userID := s.setupUser()

	err := s.repo.Put(ctx, models.Draft{
		UserID:         userID,
		QuestionID:     "21-S1-Q4",
		Status:         models.StatusAttempted,
		ElapsedSeconds: 90,
		Notes:          "stuck on part ii",
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, userID, "21-S1-Q4")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(models.StatusAttempted, got.Status)
	s.Assert().Equal(90, got.ElapsedSeconds)
	s.Assert().Equal("stuck on part ii", got.Notes)
	s.Assert().False(got.UpdatedAt.IsZero())
}

func (s *DraftRepositorySuite) TestPutOverwrites() {
	ctx := context.Background()
	userID := s.setupUser()

	s.Require().NoError(s.repo.Put(ctx, models.Draft{
		UserID:     userID,
		QuestionID: "21-S1-Q4",
		Status:     models.StatusAttempted,
	}))
	s.Require().NoError(s.repo.Put(ctx, models.Draft{
		UserID:         userID,
		QuestionID:     "21-S1-Q4",
		Status:         models.StatusCompleted,
		ElapsedSeconds: 1500,
		Difficulty:     4,
	}))

	got, err := s.repo.Get(ctx, userID, "21-S1-Q4")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(models.StatusCompleted, got.Status)
	s.Assert().Equal(1500, got.ElapsedSeconds)
	s.Assert().Equal(4, got.Difficulty)
}

func (s *DraftRepositorySuite) TestGetMissingReturnsNil() {
	ctx := context.Background()
	userID := s.setupUser()

	got, err := s.repo.Get(ctx, userID, "99-S9-Q9")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *DraftRepositorySuite) TestDraftsAreScopedPerQuestion() {
	ctx := context.Background()
	userID := s.setupUser()

	s.Require().NoError(s.repo.Put(ctx, models.Draft{UserID: userID, QuestionID: "21-S1-Q4", Notes: "a"}))
	s.Require().NoError(s.repo.Put(ctx, models.Draft{UserID: userID, QuestionID: "22-S2-Q7", Notes: "b"}))

	got, err := s.repo.Get(ctx, userID, "22-S2-Q7")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("b", got.Notes)
}

func (s *DraftRepositorySuite) TestDelete() {
	ctx := context.Background()
	userID := s.setupUser()

	s.Require().NoError(s.repo.Put(ctx, models.Draft{UserID: userID, QuestionID: "21-S1-Q4"}))
	s.Require().NoError(s.repo.Delete(ctx, userID, "21-S1-Q4"))

	got, err := s.repo.Get(ctx, userID, "21-S1-Q4")
	s.Require().NoError(err)
	s.Assert().Nil(got)

	// Deleting a draft that never existed is fine
	s.Require().NoError(s.repo.Delete(ctx, userID, "21-S1-Q4"))
}

func TestDraftRepositorySuite(t *testing.T) {
	suite.Run(t, new(DraftRepositorySuite))
}
