package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/steptracker/steptracker/internal/repository"
	"github.com/steptracker/steptracker/internal/repository/sqlite"
	"github.com/steptracker/steptracker/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *UserRepositorySuite) TestUpsertCreatesOnce() {
	ctx := context.Background()

	first, err := s.repo.Upsert(ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(first)
	s.Assert().NotEmpty(first.ID)

	second, err := s.repo.Upsert(ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(second)
	s.Assert().Equal(first.ID, second.ID)

	users, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Assert().Len(users, 1)
}

func (s *UserRepositorySuite) TestUpsertNormalizesEmail() {
	ctx := context.Background()

	first, err := s.repo.Upsert(ctx, "Alice@Example.com ")
	s.Require().NoError(err)
	s.Assert().Equal("alice@example.com", first.Email)

	second, err := s.repo.Upsert(ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Assert().Equal(first.ID, second.ID)
}

func (s *UserRepositorySuite) TestGetAndGetByEmail() {
	ctx := context.Background()

	created, err := s.repo.Upsert(ctx, "bob@example.com")
	s.Require().NoError(err)

	byID, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Assert().Equal("bob@example.com", byID.Email)

	byEmail, err := s.repo.GetByEmail(ctx, "bob@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Assert().Equal(created.ID, byEmail.ID)

	missing, err := s.repo.Get(ctx, "nope")
	s.Require().NoError(err)
	s.Assert().Nil(missing)
}

func (s *UserRepositorySuite) TestDeleteCascadesAttemptsAndDrafts() {
	ctx := context.Background()

	created, err := s.repo.Upsert(ctx, "carol@example.com")
	s.Require().NoError(err)

	attempts := sqlite.NewAttemptRepository(s.db)
	drafts := sqlite.NewDraftRepository(s.db)

	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts (ref, user_id, question_id, status, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		"ref-1", created.ID, "21-S1-Q4", "attempted")
	s.Require().NoError(err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO drafts (user_id, question_id) VALUES (?, ?)`,
		created.ID, "21-S1-Q4")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, created.ID))

	gone, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Assert().Nil(gone)

	a, err := attempts.Get(ctx, "ref-1")
	s.Require().NoError(err)
	s.Assert().Nil(a)

	d, err := drafts.Get(ctx, created.ID, "21-S1-Q4")
	s.Require().NoError(err)
	s.Assert().Nil(d)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
