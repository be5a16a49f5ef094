// Package user manages accounts. Every operation is editor-only at the
// HTTP layer.
package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

var errUserNotFound = model.NewError(model.ErrNotFound, "User not found")

type Store interface {
	Insert(ctx context.Context, u *model.User) (int64, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	users Store
}

func NewService(users Store) *Service {
	return &Service{users: users}
}

// Create stores u with its clear-text password replaced by a hash.
func (s *Service) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if err := hashPassword(u); err != nil {
		return nil, err
	}

	if _, err := s.users.Insert(ctx, u); err != nil {
		return nil, classify(err, "create user")
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}

	return u, nil
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	return users, nil
}

// Update replaces every field of user id, password included.
func (s *Service) Update(ctx context.Context, id int64, u *model.User) (*model.User, error) {
	if err := hashPassword(u); err != nil {
		return nil, err
	}

	u.ID = id
	n, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, classify(err, "update user")
	}
	if n == 0 {
		return nil, errUserNotFound
	}

	return u, nil
}

// Delete removes user id. Articles they wrote or published keep existing
// with the reference cleared.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	if n == 0 {
		return errUserNotFound
	}

	return nil
}

func hashPassword(u *model.User) error {
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash

	return nil
}

func classify(err error, op string) error {
	if errors.Is(err, model.ErrValidation) {
		return errors.Wrap(model.NewError(model.ErrValidation, "Email already in use"), err.Error())
	}

	return errors.Wrap(err, op)
}
