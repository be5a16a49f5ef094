// Package company manages the tenants articles are attributed to.
package company

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

var errCompanyNotFound = model.NewError(model.ErrNotFound, "Company not found")

type Store interface {
	Insert(ctx context.Context, c *model.Company) (int64, error)
	Get(ctx context.Context, id int64) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	Update(ctx context.Context, c *model.Company) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	companies Store
}

func NewService(companies Store) *Service {
	return &Service{companies: companies}
}

func (s *Service) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	if _, err := s.companies.Insert(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create company")
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Company, error) {
	c, err := s.companies.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, errCompanyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get company")
	}

	return c, nil
}

func (s *Service) List(ctx context.Context) ([]model.Company, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list companies")
	}

	return companies, nil
}

func (s *Service) Update(ctx context.Context, id int64, c *model.Company) (*model.Company, error) {
	c.ID = id

	n, err := s.companies.Update(ctx, c)
	if err != nil {
		return nil, errors.Wrap(err, "update company")
	}
	if n == 0 {
		return nil, errCompanyNotFound
	}

	return c, nil
}

// Delete fails with model.ErrInvalidReference while articles still point
// at the company.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.companies.Delete(ctx, id)
	if errors.Is(err, model.ErrInvalidReference) {
		return errors.Wrap(model.NewError(model.ErrInvalidReference, "Company still has articles"), err.Error())
	}
	if err != nil {
		return errors.Wrap(err, "delete company")
	}
	if n == 0 {
		return errCompanyNotFound
	}

	return nil
}
