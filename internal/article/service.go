// Package article implements the article lifecycle: writers draft, editors
// publish, and only editors touch an article once it is published.
package article

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/reqlog"
)

// Transitions reported to the Recorder.
const (
	TransitionCreated   = "created"
	TransitionUpdated   = "updated"
	TransitionPublished = "published"
	TransitionDeleted   = "deleted"
)

var errArticleNotFound = model.NewError(model.ErrNotFound, "Article not found")

type Service struct {
	articles  ArticleStore
	companies CompanyStore
	images    ImageStore
	recorder  Recorder
}

func NewService(articles ArticleStore, companies CompanyStore, images ImageStore, recorder Recorder) *Service {
	return &Service{
		articles:  articles,
		companies: companies,
		images:    images,
		recorder:  recorder,
	}
}

// Create stores a new draft owned by the calling writer. Status and writer
// are always set here, never taken from the caller.
func (s *Service) Create(ctx context.Context, caller auth.Identity, draft model.ArticleDraft) (*model.ArticleView, error) {
	if !caller.Is(model.RoleWriter) {
		return nil, model.NewError(model.ErrForbidden, "Only writers can create articles")
	}

	if err := draft.Validate(true); err != nil {
		return nil, err
	}

	if err := s.checkCompany(ctx, draft.CompanyID); err != nil {
		return nil, err
	}

	image, err := s.image(draft, "")
	if err != nil {
		return nil, err
	}

	writerID := caller.UserID
	a := &model.Article{
		Image:     image,
		Title:     draft.Title,
		Link:      draft.Link,
		Date:      draft.Date,
		Content:   draft.Content,
		Status:    model.StatusForEdit,
		WriterID:  &writerID,
		EditorID:  nil,
		CompanyID: draft.CompanyID,
	}

	id, err := s.articles.Insert(ctx, a)
	if err != nil {
		s.discardUpload(ctx, draft, image)
		return nil, errors.Wrap(err, "create article")
	}

	s.recorder.Transition(ctx, TransitionCreated)
	reqlog.From(ctx).Infow("article created", "article_id", id)

	return s.Get(ctx, id)
}

// Update overwrites the writable fields of an article. Writers may only
// touch their own drafts; editors may touch any article. Status, writer and
// editor never change here.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id int64, draft model.ArticleDraft) (*model.ArticleView, error) {
	if err := draft.Validate(false); err != nil {
		return nil, err
	}

	if err := s.checkCompany(ctx, draft.CompanyID); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case caller.Is(model.RoleEditor):
	case caller.Is(model.RoleWriter):
		if existing.IsPublished() {
			return nil, model.NewError(model.ErrForbidden, "Cannot edit a published article")
		}
		if !existing.OwnedBy(caller.UserID) {
			return nil, model.NewError(model.ErrForbidden, "Cannot edit another writer's article")
		}
	default:
		return nil, model.NewError(model.ErrForbidden, "Forbidden")
	}

	image, err := s.image(draft, existing.Image)
	if err != nil {
		return nil, err
	}

	a := &model.Article{
		ID:        id,
		Image:     image,
		Title:     draft.Title,
		Link:      draft.Link,
		Date:      draft.Date,
		Content:   draft.Content,
		CompanyID: draft.CompanyID,
	}

	if caller.Is(model.RoleWriter) {
		err = s.updateOwned(ctx, a, caller.UserID)
	} else {
		err = s.update(ctx, a)
	}
	if err != nil {
		s.discardUpload(ctx, draft, image)
		return nil, err
	}

	s.recorder.Transition(ctx, TransitionUpdated)
	reqlog.From(ctx).Infow("article updated", "article_id", id)

	return s.Get(ctx, id)
}

// Publish marks the article Published and stamps the publishing editor.
// Publishing a published article stamps the new editor again.
func (s *Service) Publish(ctx context.Context, caller auth.Identity, id int64) (*model.ArticleView, error) {
	if !caller.Is(model.RoleEditor) {
		return nil, model.NewError(model.ErrForbidden, "Only editors can publish articles")
	}

	n, err := s.articles.Publish(ctx, id, caller.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "publish article")
	}
	if n == 0 {
		return nil, errArticleNotFound
	}

	s.recorder.Transition(ctx, TransitionPublished)
	reqlog.From(ctx).Infow("article published", "article_id", id)

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, caller auth.Identity, id int64) error {
	if !caller.Is(model.RoleEditor) {
		return model.NewError(model.ErrForbidden, "Only editors can delete articles")
	}

	n, err := s.articles.Delete(ctx, id)
	if err != nil {
		return errors.Wrap(err, "delete article")
	}
	if n == 0 {
		return errArticleNotFound
	}

	s.recorder.Transition(ctx, TransitionDeleted)
	reqlog.From(ctx).Infow("article deleted", "article_id", id)

	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.ArticleView, error) {
	v, err := s.articles.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, errArticleNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get article")
	}

	return v, nil
}

func (s *Service) List(ctx context.Context) ([]model.ArticleView, error) {
	views, err := s.articles.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list articles")
	}

	return views, nil
}

func (s *Service) checkCompany(ctx context.Context, id int64) error {
	_, err := s.companies.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewError(model.ErrInvalidReference, "Invalid companyId")
	}

	return errors.Wrap(err, "check company")
}

// image resolves the stored image reference: an uploaded file wins over a
// reference string, which wins over current.
func (s *Service) image(draft model.ArticleDraft, current string) (string, error) {
	if draft.ImageFile != nil {
		ref, err := s.images.Save(draft.ImageFile.Filename, draft.ImageFile.Body)
		if err != nil {
			return "", errors.Wrap(err, "save image")
		}

		return ref, nil
	}

	if draft.Image != "" {
		return draft.Image, nil
	}

	return current, nil
}

// discardUpload removes an image saved for a write that did not happen.
func (s *Service) discardUpload(ctx context.Context, draft model.ArticleDraft, ref string) {
	if draft.ImageFile == nil {
		return
	}

	if err := s.images.Remove(ref); err != nil {
		reqlog.From(ctx).Warnw("remove orphaned image", "image", ref, "error", err)
	}
}

// updateOwned runs the writer update as one conditional statement so a
// concurrent publish or delete cannot be overwritten.
func (s *Service) updateOwned(ctx context.Context, a *model.Article, writerID int64) error {
	n, err := s.articles.UpdateOwned(ctx, a, writerID)
	if err != nil {
		return errors.Wrap(err, "update article")
	}
	if n > 0 {
		return nil
	}

	if _, err := s.Get(ctx, a.ID); err != nil {
		return err
	}

	return model.NewError(model.ErrForbidden, "Cannot edit a published article")
}

func (s *Service) update(ctx context.Context, a *model.Article) error {
	n, err := s.articles.Update(ctx, a)
	if err != nil {
		return errors.Wrap(err, "update article")
	}
	if n == 0 {
		return errArticleNotFound
	}

	return nil
}
