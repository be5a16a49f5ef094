package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// articleViewQuery left-joins the writer and editor so their display names
// come back as NULL when nobody is attached.
const articleViewQuery = `
	SELECT
		a.id, a.image, a.title, a.link, a.date, a.content, a.status,
		a.writer_id, a.editor_id, a.company_id,
		w.firstname || ' ' || w.lastname AS writer_name,
		e.firstname || ' ' || e.lastname AS editor_name
	FROM articles a
	LEFT JOIN users w ON a.writer_id = w.id
	LEFT JOIN users e ON a.editor_id = e.id`

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Insert(ctx context.Context, a *model.Article) (int64, error) {
	query := s.db.Rebind(`
		INSERT INTO articles (
			image, title, link, date, content, status, writer_id, editor_id, company_id
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?
		)
		RETURNING id`)

	var id int64
	err := s.db.QueryRowxContext(ctx, query,
		a.Image,
		a.Title,
		a.Link,
		a.Date,
		a.Content,
		a.Status,
		a.WriterID,
		a.EditorID,
		a.CompanyID,
	).Scan(&id)
	if err != nil {
		return 0, wrap(err, "insert article")
	}

	a.ID = id

	return id, nil
}

func (s *ArticleStore) Get(ctx context.Context, id int64) (*model.ArticleView, error) {
	var v model.ArticleView
	query := s.db.Rebind(articleViewQuery + ` WHERE a.id = ?`)

	if err := s.db.GetContext(ctx, &v, query, id); err != nil {
		return nil, wrap(err, "get article")
	}

	return &v, nil
}

func (s *ArticleStore) List(ctx context.Context) ([]model.ArticleView, error) {
	views := []model.ArticleView{}

	if err := s.db.SelectContext(ctx, &views, articleViewQuery+` ORDER BY a.id`); err != nil {
		return nil, wrap(err, "list articles")
	}

	return views, nil
}

// Update overwrites the editable fields. Status, writer and editor are
// left untouched.
func (s *ArticleStore) Update(ctx context.Context, a *model.Article) (int64, error) {
	query := s.db.Rebind(`
		UPDATE articles
		SET image = ?, title = ?, link = ?, date = ?, content = ?, company_id = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		a.Image,
		a.Title,
		a.Link,
		a.Date,
		a.Content,
		a.CompanyID,
		a.ID,
	)
	if err != nil {
		return 0, wrap(err, "update article")
	}

	return affected(res, "update article")
}

// UpdateOwned is Update restricted to a draft written by writerID. It
// affects zero rows once the article has been published or deleted.
func (s *ArticleStore) UpdateOwned(ctx context.Context, a *model.Article, writerID int64) (int64, error) {
	query := s.db.Rebind(`
		UPDATE articles
		SET image = ?, title = ?, link = ?, date = ?, content = ?, company_id = ?
		WHERE id = ? AND writer_id = ? AND status = ?`)

	res, err := s.db.ExecContext(ctx, query,
		a.Image,
		a.Title,
		a.Link,
		a.Date,
		a.Content,
		a.CompanyID,
		a.ID,
		writerID,
		model.StatusForEdit,
	)
	if err != nil {
		return 0, wrap(err, "update own article")
	}

	return affected(res, "update own article")
}

func (s *ArticleStore) Publish(ctx context.Context, id, editorID int64) (int64, error) {
	query := s.db.Rebind(`UPDATE articles SET status = ?, editor_id = ? WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query, model.StatusPublished, editorID, id)
	if err != nil {
		return 0, wrap(err, "publish article")
	}

	return affected(res, "publish article")
}

func (s *ArticleStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM articles WHERE id = ?`), id)
	if err != nil {
		return 0, wrap(err, "delete article")
	}

	return affected(res, "delete article")
}
