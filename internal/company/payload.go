package company

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// CompanyRequest is the body of POST /companies and PUT /companies/{companyID}.
type CompanyRequest struct {
	Logo   string `json:"logo"`
	Name   string `json:"name"`
	Status string `json:"status"`

	status model.Status
}

func (c *CompanyRequest) Bind(r *http.Request) error {
	c.Logo = strings.TrimSpace(c.Logo)
	c.Name = strings.TrimSpace(c.Name)

	if c.Logo == "" || c.Name == "" || c.Status == "" {
		return model.NewError(model.ErrValidation, "All fields are required")
	}

	var err error
	c.status, err = model.ParseStatus(c.Status)

	return err
}

func (c *CompanyRequest) Company() *model.Company {
	return &model.Company{Logo: c.Logo, Name: c.Name, Status: c.status}
}

type CompanyPayload struct {
	*model.Company
}

func NewCompanyPayload(c *model.Company) *CompanyPayload {
	return &CompanyPayload{Company: c}
}

func (c *CompanyPayload) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewCompanyListPayload(companies []model.Company) []render.Renderer {
	list := []render.Renderer{}
	for i := range companies {
		list = append(list, NewCompanyPayload(&companies[i]))
	}

	return list
}
