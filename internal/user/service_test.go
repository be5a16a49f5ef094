package user

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/storage/sqldb"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *sqlx.DB
	service *Service
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := sqldb.Connect(s.ctx, sqldb.DriverSQLite, ":memory:?_foreign_keys=on")
	s.Require().NoError(err)
	s.Require().NoError(sqldb.CreateSchema(s.ctx, db))

	s.db = db
	s.service = NewService(sqldb.NewUserStore(db))
}

func (s *ServiceTestSuite) TearDownTest() {
	s.db.Close()
}

func newUser(email string) *model.User {
	return &model.User{
		Firstname: "Jane",
		Lastname:  "Doe",
		Email:     email,
		Password:  "password456",
		Type:      model.RoleWriter,
		Status:    model.StatusActive,
	}
}

func (s *ServiceTestSuite) TestCreateHashesPassword() {
	u, err := s.service.Create(s.ctx, newUser("jane@example.com"))
	s.Require().NoError(err)
	s.NotZero(u.ID)

	stored, err := s.service.Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.NotEqual("password456", stored.Password)
	s.True(auth.CheckPassword(stored.Password, "password456"))
}

func (s *ServiceTestSuite) TestCreateDuplicateEmail() {
	_, err := s.service.Create(s.ctx, newUser("jane@example.com"))
	s.Require().NoError(err)

	_, err = s.service.Create(s.ctx, newUser("jane@example.com"))
	s.True(errors.Is(err, model.ErrValidation))

	var public *model.Error
	s.Require().True(errors.As(err, &public))
	s.Equal("Email already in use", public.Msg)
}

func (s *ServiceTestSuite) TestUpdate() {
	u, err := s.service.Create(s.ctx, newUser("jane@example.com"))
	s.Require().NoError(err)

	changed := newUser("jane.doe@example.com")
	changed.Type = model.RoleEditor
	changed.Password = "new-password"

	updated, err := s.service.Update(s.ctx, u.ID, changed)
	s.Require().NoError(err)
	s.Equal(u.ID, updated.ID)

	stored, err := s.service.Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("jane.doe@example.com", stored.Email)
	s.Equal(model.RoleEditor, stored.Type)
	s.True(auth.CheckPassword(stored.Password, "new-password"))
}

func (s *ServiceTestSuite) TestMissingUser() {
	_, err := s.service.Get(s.ctx, 99)
	s.True(errors.Is(err, model.ErrNotFound))

	_, err = s.service.Update(s.ctx, 99, newUser("x@example.com"))
	s.True(errors.Is(err, model.ErrNotFound))

	s.True(errors.Is(s.service.Delete(s.ctx, 99), model.ErrNotFound))
}

func (s *ServiceTestSuite) TestListAndDelete() {
	a, err := s.service.Create(s.ctx, newUser("a@example.com"))
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, newUser("b@example.com"))
	s.Require().NoError(err)

	users, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)

	s.Require().NoError(s.service.Delete(s.ctx, a.ID))

	users, err = s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
	s.Equal("b@example.com", users[0].Email)
}
