package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// Claims carried by both access and refresh credentials.
type Claims struct {
	UserID   int64  `json:"userId"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 credentials. Access and refresh
// credentials are signed with distinct secrets, so one can never pass for
// the other.
type Tokens struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time
}

func NewTokens(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// RandomSecret returns a URL-safe random 32 byte secret.
func RandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate secret")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (t *Tokens) IssueAccess(id Identity) (string, error) {
	return t.issue(id, t.accessSecret, t.accessTTL)
}

func (t *Tokens) IssueRefresh(id Identity) (string, error) {
	return t.issue(id, t.refreshSecret, t.refreshTTL)
}

// VerifyAccess fails with model.ErrInvalidCredential.
func (t *Tokens) VerifyAccess(token string) (Identity, error) {
	id, err := t.verify(token, t.accessSecret)
	if err != nil {
		return Identity{}, errors.Wrap(model.ErrInvalidCredential, err.Error())
	}

	return id, nil
}

// VerifyRefresh fails with model.ErrInvalidRefreshCredential.
func (t *Tokens) VerifyRefresh(token string) (Identity, error) {
	id, err := t.verify(token, t.refreshSecret)
	if err != nil {
		return Identity{}, errors.Wrap(model.ErrInvalidRefreshCredential, err.Error())
	}

	return id, nil
}

func (t *Tokens) issue(id Identity, secret []byte, ttl time.Duration) (string, error) {
	now := t.now()

	claims := Claims{
		UserID:   id.UserID,
		UserType: id.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

func (t *Tokens) verify(token string, secret []byte) (Identity, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, err
	}

	if claims.ExpiresAt == nil {
		return Identity{}, errors.New("token has no expiry")
	}

	if claims.UserID <= 0 {
		return Identity{}, errors.New("token has no subject")
	}

	role, err := model.ParseRole(claims.UserType)
	if err != nil {
		return Identity{}, err
	}

	return Identity{UserID: claims.UserID, Role: role}, nil
}
