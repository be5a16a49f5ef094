package article

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/writerhub/internal/articlerequest"
	"github.com/SergeyParamoshkin/writerhub/internal/articleresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/envelope"
	"github.com/SergeyParamoshkin/writerhub/internal/errresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/reqlog"
)

type API struct {
	service       *Service
	maxUploadSize int64
}

func NewAPI(service *Service, maxUploadSize int64) *API {
	return &API{service: service, maxUploadSize: maxUploadSize}
}

// ListArticles handles GET /articles.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	views, err := a.service.List(r.Context())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.OK(articleresponse.NewArticleListResponse(views)))
}

// CreateArticle persists the posted Article and returns it back to the
// client as an acknowledgement.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	data, err := articlerequest.Parse(w, r, a.maxUploadSize)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}
	defer a.close(r, data)

	view, err := a.service.Create(r.Context(), caller, data.Draft())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Created("Article created successfully", articleresponse.NewArticleResponse(view)))
}

// GetArticle returns the specific Article. The id was put on the context
// by ArticleCtx.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleIDFrom(r.Context())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	view, err := a.service.Get(r.Context(), id)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.OK(articleresponse.NewArticleResponse(view)))
}

// UpdateArticle updates an existing Article in our persistent store.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	id, err := articleIDFrom(r.Context())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	data, err := articlerequest.Parse(w, r, a.maxUploadSize)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}
	defer a.close(r, data)

	view, err := a.service.Update(r.Context(), caller, id, data.Draft())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Message("Article updated successfully", articleresponse.NewArticleResponse(view)))
}

// PublishArticle handles PATCH /articles/{articleID}/publish.
func (a *API) PublishArticle(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	id, err := articleIDFrom(r.Context())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	view, err := a.service.Publish(r.Context(), caller, id)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Message("Article published successfully", articleresponse.NewArticleResponse(view)))
}

// DeleteArticle removes an existing Article from our persistent store.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	id, err := articleIDFrom(r.Context())
	if err != nil {
		errresponse.Render(w, r, err)
		return
	}

	if err := a.service.Delete(r.Context(), caller, id); err != nil {
		errresponse.Render(w, r, err)
		return
	}

	a.respond(w, r, envelope.Message("Article deleted successfully", nil))
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, resp *envelope.Response) {
	if err := render.Render(w, r, resp); err != nil {
		errresponse.Render(w, r, err)
	}
}

func (a *API) close(r *http.Request, data *articlerequest.ArticleRequest) {
	if err := data.Close(); err != nil {
		reqlog.From(r.Context()).Warnw("remove multipart temp files", "error", err)
	}
}

func callerFrom(r *http.Request) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return auth.Identity{}, model.NewError(model.ErrUnauthenticated, "Unauthorized")
	}

	return id, nil
}
