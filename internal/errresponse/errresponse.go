// Package errresponse renders failures in the uniform envelope.
package errresponse

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/reqlog"
)

// GenericMessage is the only thing a caller learns about a 500.
const GenericMessage = "Something went wrong!"

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"` // user-level status message
	ErrorText string `json:"error,omitempty"`   // application-level error message
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if e.HTTPStatusCode >= http.StatusInternalServerError && e.Err != nil {
		reqlog.From(r.Context()).Errorw("request failed",
			"error", e.Err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	render.Status(r, e.HTTPStatusCode)

	return nil
}

type class struct {
	kind   error
	status int
	text   string
}

// Ordered: the first matching kind wins.
var classes = []class{
	{model.ErrValidation, http.StatusBadRequest, "Invalid request data"},
	{model.ErrInvalidReference, http.StatusBadRequest, "Invalid reference"},
	{model.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
	{model.ErrInvalidLogin, http.StatusUnauthorized, "Invalid credentials"},
	{model.ErrInvalidCredential, http.StatusForbidden, "Invalid token"},
	{model.ErrInvalidRefreshCredential, http.StatusForbidden, "Invalid refresh token"},
	{model.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{model.ErrNotFound, http.StatusNotFound, "Resource not found"},
}

// FromError classifies err. Unclassified errors become a generic 500 whose
// details are logged, not rendered.
func FromError(err error) *ErrResponse {
	for _, c := range classes {
		if !errors.Is(err, c.kind) {
			continue
		}

		text := c.text

		var public *model.Error
		if errors.As(err, &public) {
			text = public.Msg
		}

		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: c.status,
			ErrorText:      text,
		}
	}

	return ErrInternal(err)
}

func ErrInternal(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        GenericMessage,
		ErrorText:      http.StatusText(http.StatusInternalServerError),
	}
}

func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "Invalid request data",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		Message:        "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

var (
	ErrNotFound         = &ErrResponse{HTTPStatusCode: http.StatusNotFound, ErrorText: "Resource not found"}
	ErrMethodNotAllowed = &ErrResponse{HTTPStatusCode: http.StatusMethodNotAllowed, ErrorText: "Method not allowed"}
)

// Render writes the error envelope for err. A failure to render is only
// logged; the status line has already gone out.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	if rerr := render.Render(w, r, FromError(err)); rerr != nil {
		reqlog.From(r.Context()).Errorw("render error response", "error", rerr)
	}
}
