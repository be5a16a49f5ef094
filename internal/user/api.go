package user

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/writerhub/internal/envelope"
	"github.com/SergeyParamoshkin/writerhub/internal/errresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/reqlog"
	"github.com/SergeyParamoshkin/writerhub/internal/reqparse"
	"github.com/SergeyParamoshkin/writerhub/internal/userpayload"
)

type API struct {
	service *Service
}

func NewAPI(service *Service) *API {
	return &API{service: service}
}

// ListUsers handles GET /users.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.service.List(r.Context())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.OK(userpayload.NewUserListResponse(users)))
}

// CreateUser handles POST /users.
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	data := &userpayload.UserRequest{}
	if err := reqparse.Bind(r, data); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	u, err := a.service.Create(r.Context(), data.User())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	reqlog.From(r.Context()).Infow("user created", "new_user_id", u.ID)
	a.respond(w, r, envelope.Created("User created successfully", userpayload.NewUserPayloadResponse(u)))
}

// GetUser handles GET /users/{userID}.
func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := reqparse.ID(r, "userID")
	if err != nil {
		errresponse.Render(w, r, errUserNotFound)
		return
	}

	u, err := a.service.Get(r.Context(), id)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.OK(userpayload.NewUserPayloadResponse(u)))
}

// UpdateUser handles PUT /users/{userID}.
func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := reqparse.ID(r, "userID")
	if err != nil {
		errresponse.Render(w, r, errUserNotFound)
		return
	}

	data := &userpayload.UserRequest{}
	if err := reqparse.Bind(r, data); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	u, err := a.service.Update(r.Context(), id, data.User())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Message("User updated successfully", userpayload.NewUserPayloadResponse(u)))
}

// DeleteUser handles DELETE /users/{userID}.
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := reqparse.ID(r, "userID")
	if err != nil {
		errresponse.Render(w, r, errUserNotFound)
		return
	}

	if err := a.service.Delete(r.Context(), id); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Message("User deleted successfully", nil))
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, resp *envelope.Response) {
	if err := render.Render(w, r, resp); err != nil {
		errresponse.Render(w, r, err)
	}
}
