package auth

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/errresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/reqlog"
)

// Guard is one precondition of a route. It returns the request to pass on
// (possibly with a richer context) or the error that stops the chain.
type Guard func(r *http.Request) (*http.Request, error)

// Chain runs guards in order before next. The first failing guard renders
// its error and nothing after it runs.
func Chain(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, guard := range guards {
				passed, err := guard(r)
				if err != nil {
					errresponse.Render(w, r, err)
					return
				}
				r = passed
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Verifier validates an access credential.
type Verifier interface {
	VerifyAccess(token string) (Identity, error)
}

// Authenticate attaches the identity behind the bearer credential.
func Authenticate(v Verifier) Guard {
	return func(r *http.Request) (*http.Request, error) {
		token, err := bearerToken(r)
		if err != nil {
			return nil, err
		}

		id, err := v.VerifyAccess(token)
		if err != nil {
			reqlog.From(r.Context()).Debugw("rejected credential", "error", err)
			return nil, err
		}

		ctx := WithIdentity(r.Context(), id)
		ctx = reqlog.With(ctx, reqlog.From(ctx).With("user_id", id.UserID, "role", id.Role.String()))

		return r.WithContext(ctx), nil
	}
}

// RequireRole is the role gate: it passes only callers whose role equals
// role. It must run after Authenticate.
func RequireRole(role model.Role) Guard {
	return func(r *http.Request) (*http.Request, error) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			return nil, model.NewError(model.ErrUnauthenticated, "Unauthorized")
		}

		if !id.Is(role) {
			return nil, errors.Wrapf(model.NewError(model.ErrForbidden, "Forbidden"), "requires %s, caller is %s", role, id.Role)
		}

		return r, nil
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", model.NewError(model.ErrUnauthenticated, "Unauthorized")
	}

	return token, nil
}
