package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// UserStore is the slice of the user store authentication needs.
type UserStore interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type Service struct {
	users  UserStore
	tokens *Tokens
}

func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// Session is the result of a successful login.
type Session struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// Login checks the email/password pair and issues both credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, model.NewError(model.ErrValidation, "Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.NewError(model.ErrInvalidLogin, "Invalid credentials")
	}
	if err != nil {
		return nil, errors.Wrap(err, "login")
	}

	if !CheckPassword(user.Password, password) {
		return nil, model.NewError(model.ErrInvalidLogin, "Invalid credentials")
	}

	if !user.Active() {
		return nil, model.NewError(model.ErrForbidden, "Account is inactive")
	}

	id := Identity{UserID: user.ID, Role: user.Type}

	access, err := s.tokens.IssueAccess(id)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.IssueRefresh(id)
	if err != nil {
		return nil, err
	}

	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh credential for a new access credential. The
// user is re-read so the new credential carries the current role.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", model.NewError(model.ErrUnauthenticated, "Refresh token required")
	}

	id, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.users.Get(ctx, id.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return "", errors.Wrap(model.ErrInvalidRefreshCredential, "user no longer exists")
	}
	if err != nil {
		return "", errors.Wrap(err, "refresh")
	}

	if !user.Active() {
		return "", model.NewError(model.ErrForbidden, "Account is inactive")
	}

	return s.tokens.IssueAccess(Identity{UserID: user.ID, Role: user.Type})
}
