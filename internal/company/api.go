package company

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/writerhub/internal/envelope"
	"github.com/SergeyParamoshkin/writerhub/internal/errresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/reqparse"
)

type API struct {
	service *Service
}

func NewAPI(service *Service) *API {
	return &API{service: service}
}

// ListCompanies handles GET /companies.
func (a *API) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := a.service.List(r.Context())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.OK(NewCompanyListPayload(companies)))
}

// CreateCompany handles POST /companies.
func (a *API) CreateCompany(w http.ResponseWriter, r *http.Request) {
	data := &CompanyRequest{}
	if err := reqparse.Bind(r, data); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	c, err := a.service.Create(r.Context(), data.Company())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Created("Company created successfully", NewCompanyPayload(c)))
}

// GetCompany handles GET /companies/{companyID}.
func (a *API) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := reqparse.ID(r, "companyID")
	if err != nil {
		errresponse.Render(w, r, errCompanyNotFound)
		return
	}

	c, err := a.service.Get(r.Context(), id)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.OK(NewCompanyPayload(c)))
}

// UpdateCompany handles PUT /companies/{companyID}.
func (a *API) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := reqparse.ID(r, "companyID")
	if err != nil {
		errresponse.Render(w, r, errCompanyNotFound)
		return
	}

	data := &CompanyRequest{}
	if err := reqparse.Bind(r, data); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	c, err := a.service.Update(r.Context(), id, data.Company())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Message("Company updated successfully", NewCompanyPayload(c)))
}

// DeleteCompany handles DELETE /companies/{companyID}.
func (a *API) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := reqparse.ID(r, "companyID")
	if err != nil {
		errresponse.Render(w, r, errCompanyNotFound)
		return
	}

	if err := a.service.Delete(r.Context(), id); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Message("Company deleted successfully", nil))
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, resp *envelope.Response) {
	if err := render.Render(w, r, resp); err != nil {
		errresponse.Render(w, r, err)
	}
}
