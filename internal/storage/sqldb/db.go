// Package sqldb is the relational Entity Store. Every store method runs a
// single statement; there are no multi-statement transactions.
package sqldb

import (
	"context"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/pkg/errors"
	"github.com/xo/dburl"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Open connects to the database named by a dburl URL such as
// "sqlite3:writerhub.db" or "postgres://u:p@host/db".
func Open(ctx context.Context, rawURL string) (*sqlx.DB, error) {
	u, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}

	return Connect(ctx, u.Driver, u.DSN)
}

// Connect opens and pings a database for a known driver. sqlite foreign
// keys are always enforced, whatever the DSN says.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(model.ErrStoreUnavailable, "open %s: %v", driver, err)
	}

	if driver == DriverSQLite {
		// one connection: statements are serialized by the driver and an
		// in-memory database stays a single database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(model.ErrStoreUnavailable, "ping %s: %v", driver, err)
	}

	return db, nil
}

// sqliteDSN sets _foreign_keys=1 on a go-sqlite3 DSN, replacing any
// _foreign_keys or _fk option already present.
func sqliteDSN(dsn string) (string, error) {
	name, rawQuery, _ := strings.Cut(dsn, "?")

	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", errors.Wrap(err, "parse sqlite dsn options")
	}
	params.Del("_fk")
	params.Set("_foreign_keys", "1")

	return name + "?" + params.Encode(), nil
}
