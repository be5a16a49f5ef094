package server

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/config"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/storage/sqldb"
)

// Bootstrap creates the schema and seeds the configured users into an
// empty users table. Running it again changes nothing.
func Bootstrap(ctx context.Context, db *sqlx.DB, seed config.SeedConfig, logger *zap.SugaredLogger) error {
	if err := sqldb.CreateSchema(ctx, db); err != nil {
		return err
	}

	if !seed.SeedEnabled() {
		return nil
	}

	users := make([]model.User, 0, len(seed.Users))
	for _, su := range seed.Users {
		role, err := model.ParseRole(su.Type)
		if err != nil {
			return errors.Wrapf(err, "seed user %s", su.Email)
		}

		status, err := model.ParseStatus(su.Status)
		if err != nil {
			return errors.Wrapf(err, "seed user %s", su.Email)
		}

		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			return err
		}

		users = append(users, model.User{
			Firstname: su.Firstname,
			Lastname:  su.Lastname,
			Email:     strings.ToLower(strings.TrimSpace(su.Email)),
			Password:  hash,
			Type:      role,
			Status:    status,
		})
	}

	n, err := sqldb.SeedUsers(ctx, db, users)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Infow("seeded users", "count", n)
	}

	return nil
}

// NewTokens builds the credential issuer. A missing secret is replaced by
// a random one, which invalidates every credential on restart.
func NewTokens(cfg config.AuthConfig, logger *zap.SugaredLogger) (*auth.Tokens, error) {
	access, err := secretOrRandom(cfg.AccessSecret, "access_secret", logger)
	if err != nil {
		return nil, err
	}

	refresh, err := secretOrRandom(cfg.RefreshSecret, "refresh_secret", logger)
	if err != nil {
		return nil, err
	}

	return auth.NewTokens(access, refresh, cfg.AccessTTL, cfg.RefreshTTL), nil
}

func secretOrRandom(secret, name string, logger *zap.SugaredLogger) (string, error) {
	if secret != "" {
		return secret, nil
	}

	logger.Warnw("no secret configured, generated a random one", "key", "auth."+name)

	return auth.RandomSecret()
}
