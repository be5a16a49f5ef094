package userpayload

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

//--
// Request and Response payloads for the /users resource.
//--

// UserRequest is the body of POST /users and PUT /users/{userID}. Every
// field is required; Password is plain text and gets hashed by the service.
type UserRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Type      string `json:"type"`
	Status    string `json:"status"`

	role   model.Role
	status model.Status
}

// Bind on UserRequest will run after the unmarshalling is complete.
func (u *UserRequest) Bind(r *http.Request) error {
	u.Firstname = strings.TrimSpace(u.Firstname)
	u.Lastname = strings.TrimSpace(u.Lastname)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.Firstname == "" || u.Lastname == "" || u.Email == "" || u.Password == "" || u.Type == "" || u.Status == "" {
		return model.NewError(model.ErrValidation, "All fields are required")
	}

	if !strings.Contains(u.Email, "@") {
		return model.NewError(model.ErrValidation, "Invalid email address")
	}

	var err error
	if u.role, err = model.ParseRole(u.Type); err != nil {
		return err
	}
	if u.status, err = model.ParseStatus(u.Status); err != nil {
		return err
	}

	return nil
}

// User converts the bound request to a model with a clear-text password.
func (u *UserRequest) User() *model.User {
	return &model.User{
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Password:  u.Password,
		Type:      u.role,
		Status:    u.status,
	}
}

// UserPayload is the rendered user. The password hash never leaves the
// server because model.User does not serialize it.
type UserPayload struct {
	*model.User
}

func NewUserPayloadResponse(user *model.User) *UserPayload {
	return &UserPayload{User: user}
}

func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewUserListResponse(users []model.User) []render.Renderer {
	list := []render.Renderer{}
	for i := range users {
		list = append(list, NewUserPayloadResponse(&users[i]))
	}

	return list
}
