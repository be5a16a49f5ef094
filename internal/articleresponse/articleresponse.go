package articleresponse

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// ArticleResponse is the response payload for the Article data model,
// enriched with the writer and editor display names.
type ArticleResponse struct {
	*model.ArticleView
}

func NewArticleListResponse(articles []model.ArticleView) []render.Renderer {
	list := []render.Renderer{}
	for i := range articles {
		list = append(list, NewArticleResponse(&articles[i]))
	}

	return list
}

func NewArticleResponse(article *model.ArticleView) *ArticleResponse {
	return &ArticleResponse{ArticleView: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
