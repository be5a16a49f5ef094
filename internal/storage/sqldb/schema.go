package sqldb

import (
	"context"
	"embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// CreateSchema creates the companies, users and articles tables unless they
// already exist.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	ddl, err := schemaFiles.ReadFile("schema/" + db.DriverName() + ".sql")
	if err != nil {
		return errors.Errorf("no schema for driver %q", db.DriverName())
	}

	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		return wrap(err, "create schema")
	}

	return nil
}

// SeedUsers inserts users only when the users table is empty and reports
// how many rows it inserted. Passwords must already be hashed.
func SeedUsers(ctx context.Context, db *sqlx.DB, users []model.User) (int, error) {
	store := NewUserStore(db)

	n, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for i := range users {
		if _, err := store.Insert(ctx, &users[i]); err != nil {
			return i, errors.Wrapf(err, "seed user %s", users[i].Email)
		}
	}

	return len(users), nil
}
