// Package reqparse extracts typed URL parameters and request bodies.
package reqparse

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// ID parses the named URL parameter as a positive row id. A malformed id
// cannot name a row, so it is reported as model.ErrNotFound.
func ID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(model.ErrNotFound, "bad %s %q", name, raw)
	}

	return id, nil
}

// Bind decodes the body into v and runs its Bind hook. An empty body binds
// as an empty object. Decoding failures become validation errors; errors
// from the hook pass through.
func Bind(r *http.Request, v render.Binder) error {
	if err := render.Bind(r, v); err != nil {
		if errors.Is(err, io.EOF) {
			return v.Bind(r)
		}

		var public *model.Error
		if errors.As(err, &public) {
			return err
		}

		return errors.Wrap(model.NewError(model.ErrValidation, "Malformed request body"), err.Error())
	}

	return nil
}
