package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

const userColumns = `id, firstname, lastname, email, password, type, status`

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Insert(ctx context.Context, u *model.User) (int64, error) {
	query := s.db.Rebind(`
		INSERT INTO users (firstname, lastname, email, password, type, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := s.db.QueryRowxContext(ctx, query,
		u.Firstname,
		u.Lastname,
		u.Email,
		u.Password,
		u.Type,
		u.Status,
	).Scan(&id)
	if err != nil {
		return 0, wrap(err, "insert user")
	}

	u.ID = id

	return id, nil
}

func (s *UserStore) Get(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	query := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	if err := s.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, wrap(err, "get user")
	}

	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)

	if err := s.db.GetContext(ctx, &u, query, email); err != nil {
		return nil, wrap(err, "get user by email")
	}

	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}

	if err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, wrap(err, "list users")
	}

	return users, nil
}

func (s *UserStore) Update(ctx context.Context, u *model.User) (int64, error) {
	query := s.db.Rebind(`
		UPDATE users
		SET firstname = ?, lastname = ?, email = ?, password = ?, type = ?, status = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		u.Firstname,
		u.Lastname,
		u.Email,
		u.Password,
		u.Type,
		u.Status,
		u.ID,
	)
	if err != nil {
		return 0, wrap(err, "update user")
	}

	return affected(res, "update user")
}

func (s *UserStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return 0, wrap(err, "delete user")
	}

	return affected(res, "delete user")
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, wrap(err, "count users")
	}

	return n, nil
}
