package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

type CompanyStore struct {
	db *sqlx.DB
}

func NewCompanyStore(db *sqlx.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) Insert(ctx context.Context, c *model.Company) (int64, error) {
	query := s.db.Rebind(`
		INSERT INTO companies (logo, name, status)
		VALUES (?, ?, ?)
		RETURNING id`)

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, c.Logo, c.Name, c.Status).Scan(&id); err != nil {
		return 0, wrap(err, "insert company")
	}

	c.ID = id

	return id, nil
}

func (s *CompanyStore) Get(ctx context.Context, id int64) (*model.Company, error) {
	var c model.Company
	query := s.db.Rebind(`SELECT id, logo, name, status FROM companies WHERE id = ?`)

	if err := s.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, wrap(err, "get company")
	}

	return &c, nil
}

func (s *CompanyStore) List(ctx context.Context) ([]model.Company, error) {
	companies := []model.Company{}

	err := s.db.SelectContext(ctx, &companies, `SELECT id, logo, name, status FROM companies ORDER BY id`)
	if err != nil {
		return nil, wrap(err, "list companies")
	}

	return companies, nil
}

// Update returns the number of affected rows; zero means no such company.
func (s *CompanyStore) Update(ctx context.Context, c *model.Company) (int64, error) {
	query := s.db.Rebind(`UPDATE companies SET logo = ?, name = ?, status = ? WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query, c.Logo, c.Name, c.Status, c.ID)
	if err != nil {
		return 0, wrap(err, "update company")
	}

	return affected(res, "update company")
}

func (s *CompanyStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM companies WHERE id = ?`), id)
	if err != nil {
		return 0, wrap(err, "delete company")
	}

	return affected(res, "delete company")
}
