package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/errresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/reqlog"
)

// Logger puts the request-scoped logger on the context.
func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.sugarLogger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(reqlog.With(r.Context(), logger)))
	})
}

// AccessLog logs one line per request once it has been served.
func (a *App) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		reqlog.From(r.Context()).Infow("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// Recoverer turns a panic into a generic 500 envelope and logs the stack.
func (a *App) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			reqlog.From(r.Context()).Errorw("panic recovered",
				"panic", fmt.Sprint(rvr),
				"stack", string(debug.Stack()),
			)
			errresponse.Render(w, r, errors.Errorf("panic: %v", rvr))
		}()

		next.ServeHTTP(w, r)
	})
}

// respond replaces render.Respond: an error value rendered directly is
// classified instead of being serialized as-is.
func respond(w http.ResponseWriter, r *http.Request, v interface{}) {
	if err, ok := v.(error); ok {
		resp := errresponse.FromError(err)
		if rerr := resp.Render(w, r); rerr != nil {
			reqlog.From(r.Context()).Errorw("render error response", "error", rerr)
		}
		render.DefaultResponder(w, r, resp)

		return
	}

	render.DefaultResponder(w, r, v)
}

func init() {
	render.Respond = respond
}
