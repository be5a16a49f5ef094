package article

import (
	"context"
	"net/http"

	"github.com/SergeyParamoshkin/writerhub/internal/errresponse"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/reqparse"
)

type ctxKey int8

const ctxKeyArticleID ctxKey = iota

// ArticleCtx middleware is used to load the article id from the URL
// parameters passed through as the request. Ids that are not positive
// integers can never match an article, so we stop here with a 404.
func ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := reqparse.ID(r, "articleID")
		if err != nil {
			errresponse.Render(w, r, errArticleNotFound)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticleID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func articleIDFrom(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(ctxKeyArticleID).(int64)
	if !ok {
		return 0, model.NewError(model.ErrNotFound, "Article not found")
	}

	return id, nil
}
