package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

type memUsers struct {
	byID map[int64]*model.User
}

func (m *memUsers) Get(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}

	return nil, model.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}

	return nil, model.ErrNotFound
}

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	users   *memUsers
	tokens  *Tokens
	service *Service
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	hash, err := HashPassword("password123")
	s.Require().NoError(err)

	s.users = &memUsers{byID: map[int64]*model.User{
		1: {ID: 1, Email: "john.doe@example.com", Password: hash, Type: model.RoleEditor, Status: model.StatusActive},
		2: {ID: 2, Email: "gone@example.com", Password: hash, Type: model.RoleWriter, Status: model.StatusInactive},
	}}
	s.tokens = newTestTokens()
	s.service = NewService(s.users, s.tokens)
}

func (s *ServiceTestSuite) TestLogin() {
	session, err := s.service.Login(s.ctx, "john.doe@example.com", "password123")
	s.Require().NoError(err)
	s.Equal(int64(1), session.User.ID)

	id, err := s.tokens.VerifyAccess(session.AccessToken)
	s.Require().NoError(err)
	s.Equal(Identity{UserID: 1, Role: model.RoleEditor}, id)

	id, err = s.tokens.VerifyRefresh(session.RefreshToken)
	s.Require().NoError(err)
	s.Equal(int64(1), id.UserID)
}

func (s *ServiceTestSuite) TestLogin_Failures() {
	_, err := s.service.Login(s.ctx, "", "password123")
	s.True(errors.Is(err, model.ErrValidation))

	_, err = s.service.Login(s.ctx, "john.doe@example.com", "")
	s.True(errors.Is(err, model.ErrValidation))

	_, err = s.service.Login(s.ctx, "john.doe@example.com", "wrong")
	s.True(errors.Is(err, model.ErrInvalidLogin))

	_, err = s.service.Login(s.ctx, "nobody@example.com", "password123")
	s.True(errors.Is(err, model.ErrInvalidLogin))

	_, err = s.service.Login(s.ctx, "gone@example.com", "password123")
	s.True(errors.Is(err, model.ErrForbidden))
}

func (s *ServiceTestSuite) TestRefresh() {
	refresh, err := s.tokens.IssueRefresh(Identity{UserID: 1, Role: model.RoleWriter})
	s.Require().NoError(err)

	access, err := s.service.Refresh(s.ctx, refresh)
	s.Require().NoError(err)

	id, err := s.tokens.VerifyAccess(access)
	s.Require().NoError(err)
	s.Equal(model.RoleEditor, id.Role, "role comes from the store, not the old claims")
}

func (s *ServiceTestSuite) TestRefresh_Failures() {
	_, err := s.service.Refresh(s.ctx, "")
	s.True(errors.Is(err, model.ErrUnauthenticated))

	_, err = s.service.Refresh(s.ctx, "garbage")
	s.True(errors.Is(err, model.ErrInvalidRefreshCredential))

	access, err := s.tokens.IssueAccess(Identity{UserID: 1, Role: model.RoleEditor})
	s.Require().NoError(err)
	_, err = s.service.Refresh(s.ctx, access)
	s.True(errors.Is(err, model.ErrInvalidRefreshCredential))

	orphan, err := s.tokens.IssueRefresh(Identity{UserID: 99, Role: model.RoleEditor})
	s.Require().NoError(err)
	_, err = s.service.Refresh(s.ctx, orphan)
	s.True(errors.Is(err, model.ErrInvalidRefreshCredential))
}
