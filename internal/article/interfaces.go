package article

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// ArticleStore persists articles. Update, UpdateOwned, Publish and Delete
// return the number of affected rows.
type ArticleStore interface {
	Insert(ctx context.Context, a *model.Article) (int64, error)
	Get(ctx context.Context, id int64) (*model.ArticleView, error)
	List(ctx context.Context) ([]model.ArticleView, error)
	Update(ctx context.Context, a *model.Article) (int64, error)
	UpdateOwned(ctx context.Context, a *model.Article, writerID int64) (int64, error)
	Publish(ctx context.Context, id, editorID int64) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type CompanyStore interface {
	Get(ctx context.Context, id int64) (*model.Company, error)
}

// ImageStore keeps uploaded images. Remove takes a reference returned by
// Save.
type ImageStore interface {
	Save(filename string, src io.Reader) (string, error)
	Remove(ref string) error
}

// Recorder counts lifecycle transitions.
type Recorder interface {
	Transition(ctx context.Context, transition string)
}
