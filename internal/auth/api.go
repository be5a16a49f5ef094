package auth

import (
	"net/http"
	"strings"

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

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Bind leaves the required-field check to the service.
func (l *LoginRequest) Bind(r *http.Request) error {
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	return nil
}

type LoginResponse struct {
	*userpayload.UserPayload
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (l *LoginResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (rr *RefreshRequest) Bind(r *http.Request) error {
	return nil
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (rr *RefreshResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Login handles POST /auth/login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	data := &LoginRequest{}
	if err := reqparse.Bind(r, data); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	session, err := a.service.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	reqlog.From(r.Context()).Infow("user logged in", "user_id", session.User.ID)

	resp := &LoginResponse{
		UserPayload:  userpayload.NewUserPayloadResponse(session.User),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}
	if err := render.Render(w, r, envelope.Message("Login successful", resp)); err != nil {
		errresponse.Render(w, r, err)
	}
}

// Refresh handles POST /auth/refresh.
func (a *API) Refresh(w http.ResponseWriter, r *http.Request) {
	data := &RefreshRequest{}
	if err := reqparse.Bind(r, data); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	token, err := a.service.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	if err := render.Render(w, r, envelope.OK(&RefreshResponse{AccessToken: token})); err != nil {
		errresponse.Render(w, r, err)
	}
}
