package article

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/SergeyParamoshkin/writerhub/internal/article/mocks"
	"github.com/SergeyParamoshkin/writerhub/internal/auth"
	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	ctx  context.Context

	articles  *mocks.MockArticleStore
	companies *mocks.MockCompanyStore
	images    *mocks.MockImageStore
	recorder  *mocks.MockRecorder

	service *Service

	writer  auth.Identity
	other   auth.Identity
	editor  auth.Identity
	company *model.Company
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()

	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.companies = mocks.NewMockCompanyStore(s.ctrl)
	s.images = mocks.NewMockImageStore(s.ctrl)
	s.recorder = mocks.NewMockRecorder(s.ctrl)

	s.service = NewService(s.articles, s.companies, s.images, s.recorder)

	s.writer = auth.Identity{UserID: 42, Role: model.RoleWriter}
	s.other = auth.Identity{UserID: 43, Role: model.RoleWriter}
	s.editor = auth.Identity{UserID: 7, Role: model.RoleEditor}
	s.company = &model.Company{ID: 1, Name: "Acme", Status: model.StatusActive}
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func draft() model.ArticleDraft {
	return model.ArticleDraft{
		Image:     "/uploads/a.png",
		Title:     "A",
		Link:      "l",
		Date:      "2024-01-01",
		Content:   "c",
		CompanyID: 1,
	}
}

func ptr(v int64) *int64 {
	return &v
}

func view(id int64, status model.ArticleStatus, writerID, editorID *int64) *model.ArticleView {
	return &model.ArticleView{Article: model.Article{
		ID:        id,
		Image:     "/uploads/old.png",
		Title:     "A",
		Link:      "l",
		Date:      "2024-01-01",
		Content:   "c",
		Status:    status,
		WriterID:  writerID,
		EditorID:  editorID,
		CompanyID: 1,
	}}
}

func (s *ServiceTestSuite) TestCreate_StampsStatusAndWriter() {
	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Insert(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, a *model.Article) (int64, error) {
		s.Equal(model.StatusForEdit, a.Status)
		s.Require().NotNil(a.WriterID)
		s.Equal(int64(42), *a.WriterID)
		s.Nil(a.EditorID)
		s.Equal("/uploads/a.png", a.Image)
		a.ID = 10
		return 10, nil
	})
	s.recorder.EXPECT().Transition(s.ctx, TransitionCreated)
	s.articles.EXPECT().Get(s.ctx, int64(10)).Return(view(10, model.StatusForEdit, ptr(42), nil), nil)

	got, err := s.service.Create(s.ctx, s.writer, draft())
	s.Require().NoError(err)
	s.Equal(int64(10), got.ID)
	s.Equal(model.StatusForEdit, got.Status)
	s.Equal(int64(42), *got.WriterID)
	s.Nil(got.EditorID)
}

func (s *ServiceTestSuite) TestCreate_UploadsImageFile() {
	d := draft()
	d.Image = ""
	d.ImageFile = &model.ImageFile{Filename: "cover.png", Body: strings.NewReader("png")}

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.images.EXPECT().Save("cover.png", d.ImageFile.Body).Return("/uploads/1-cover.png", nil)
	s.articles.EXPECT().Insert(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, a *model.Article) (int64, error) {
		s.Equal("/uploads/1-cover.png", a.Image)
		return 11, nil
	})
	s.recorder.EXPECT().Transition(s.ctx, TransitionCreated)
	s.articles.EXPECT().Get(s.ctx, int64(11)).Return(view(11, model.StatusForEdit, ptr(42), nil), nil)

	_, err := s.service.Create(s.ctx, s.writer, d)
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestCreate_ImageStorageFailure() {
	d := draft()
	d.ImageFile = &model.ImageFile{Filename: "cover.png", Body: strings.NewReader("png")}

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", model.ErrStorage)

	_, err := s.service.Create(s.ctx, s.writer, d)
	s.True(errors.Is(err, model.ErrStorage))
}

func (s *ServiceTestSuite) TestCreate_Rejections() {
	_, err := s.service.Create(s.ctx, s.editor, draft())
	s.True(errors.Is(err, model.ErrForbidden), "editors do not create")

	d := draft()
	d.Image = ""
	_, err = s.service.Create(s.ctx, s.writer, d)
	s.True(errors.Is(err, model.ErrValidation), "image is required")

	d = draft()
	d.Content = ""
	_, err = s.service.Create(s.ctx, s.writer, d)
	s.True(errors.Is(err, model.ErrValidation))

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(nil, model.ErrNotFound)
	_, err = s.service.Create(s.ctx, s.writer, draft())
	s.True(errors.Is(err, model.ErrInvalidReference))
}

func (s *ServiceTestSuite) TestUpdate_OwnDraft() {
	d := draft()
	d.Image = ""

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusForEdit, ptr(42), nil), nil)
	s.articles.EXPECT().UpdateOwned(s.ctx, gomock.Any(), int64(42)).DoAndReturn(
		func(_ context.Context, a *model.Article, _ int64) (int64, error) {
			s.Equal(int64(5), a.ID)
			s.Equal("/uploads/old.png", a.Image, "prior image is kept")
			return 1, nil
		})
	s.recorder.EXPECT().Transition(s.ctx, TransitionUpdated)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusForEdit, ptr(42), nil), nil)

	got, err := s.service.Update(s.ctx, s.writer, 5, d)
	s.Require().NoError(err)
	s.Equal(int64(42), *got.WriterID)
}

func (s *ServiceTestSuite) TestUpdate_WriterForbidden() {
	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil).Times(2)

	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusPublished, ptr(42), ptr(7)), nil)
	_, err := s.service.Update(s.ctx, s.writer, 5, draft())
	s.True(errors.Is(err, model.ErrForbidden), "own published article")

	s.articles.EXPECT().Get(s.ctx, int64(6)).Return(view(6, model.StatusForEdit, ptr(42), nil), nil)
	_, err = s.service.Update(s.ctx, s.other, 6, draft())
	s.True(errors.Is(err, model.ErrForbidden), "another writer's draft")
}

func (s *ServiceTestSuite) TestUpdate_WriterLosesRace() {
	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusForEdit, ptr(42), nil), nil)
	s.articles.EXPECT().UpdateOwned(s.ctx, gomock.Any(), int64(42)).Return(int64(0), nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusPublished, ptr(42), ptr(7)), nil)

	_, err := s.service.Update(s.ctx, s.writer, 5, draft())
	s.True(errors.Is(err, model.ErrForbidden))
}

func (s *ServiceTestSuite) TestUpdate_WriterLosesRaceToDelete() {
	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusForEdit, ptr(42), nil), nil)
	s.articles.EXPECT().UpdateOwned(s.ctx, gomock.Any(), int64(42)).Return(int64(0), nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(nil, model.ErrNotFound)

	_, err := s.service.Update(s.ctx, s.writer, 5, draft())
	s.True(errors.Is(err, model.ErrNotFound))
}

func (s *ServiceTestSuite) TestCreate_FailedInsertRemovesUpload() {
	d := draft()
	d.ImageFile = &model.ImageFile{Filename: "cover.png", Body: strings.NewReader("png")}

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.images.EXPECT().Save("cover.png", d.ImageFile.Body).Return("/uploads/1-cover.png", nil)
	s.articles.EXPECT().Insert(s.ctx, gomock.Any()).Return(int64(0), model.ErrStoreUnavailable)
	s.images.EXPECT().Remove("/uploads/1-cover.png").Return(nil)

	_, err := s.service.Create(s.ctx, s.writer, d)
	s.True(errors.Is(err, model.ErrStoreUnavailable))
}

func (s *ServiceTestSuite) TestUpdate_WriterLosesRaceRemovesUpload() {
	d := draft()
	d.ImageFile = &model.ImageFile{Filename: "cover.png", Body: strings.NewReader("png")}

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusForEdit, ptr(42), nil), nil)
	s.images.EXPECT().Save("cover.png", d.ImageFile.Body).Return("/uploads/2-cover.png", nil)
	s.articles.EXPECT().UpdateOwned(s.ctx, gomock.Any(), int64(42)).Return(int64(0), nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusPublished, ptr(42), ptr(7)), nil)
	s.images.EXPECT().Remove("/uploads/2-cover.png").Return(model.ErrStorage)

	_, err := s.service.Update(s.ctx, s.writer, 5, d)
	s.True(errors.Is(err, model.ErrForbidden), "a failed cleanup does not mask the outcome")
}

func (s *ServiceTestSuite) TestUpdate_EditorMissingArticleRemovesUpload() {
	d := draft()
	d.ImageFile = &model.ImageFile{Filename: "cover.png", Body: strings.NewReader("png")}

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusPublished, ptr(42), ptr(7)), nil)
	s.images.EXPECT().Save("cover.png", d.ImageFile.Body).Return("/uploads/3-cover.png", nil)
	s.articles.EXPECT().Update(s.ctx, gomock.Any()).Return(int64(0), nil)
	s.images.EXPECT().Remove("/uploads/3-cover.png").Return(nil)

	_, err := s.service.Update(s.ctx, s.editor, 5, d)
	s.True(errors.Is(err, model.ErrNotFound))
}

func (s *ServiceTestSuite) TestUpdate_EditorAfterPublish() {
	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusPublished, ptr(42), ptr(7)), nil)
	s.articles.EXPECT().Update(s.ctx, gomock.Any()).Return(int64(1), nil)
	s.recorder.EXPECT().Transition(s.ctx, TransitionUpdated)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusPublished, ptr(42), ptr(7)), nil)

	got, err := s.service.Update(s.ctx, s.editor, 5, draft())
	s.Require().NoError(err)
	s.Equal(model.StatusPublished, got.Status)
}

func (s *ServiceTestSuite) TestUpdate_InvalidCompanyDoesNotMutate() {
	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(nil, model.ErrNotFound)

	_, err := s.service.Update(s.ctx, s.editor, 5, draft())
	s.True(errors.Is(err, model.ErrInvalidReference))
}

func (s *ServiceTestSuite) TestUpdate_MissingArticle() {
	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil)
	s.articles.EXPECT().Get(s.ctx, int64(99)).Return(nil, model.ErrNotFound)

	_, err := s.service.Update(s.ctx, s.editor, 99, draft())
	s.True(errors.Is(err, model.ErrNotFound))
	s.Equal("Article not found", err.Error())
}

func (s *ServiceTestSuite) TestUpdate_Validation() {
	d := draft()
	d.Date = "yesterday"

	_, err := s.service.Update(s.ctx, s.editor, 5, d)
	s.True(errors.Is(err, model.ErrValidation))
}

func (s *ServiceTestSuite) TestPublish() {
	s.articles.EXPECT().Publish(s.ctx, int64(5), int64(7)).Return(int64(1), nil)
	s.recorder.EXPECT().Transition(s.ctx, TransitionPublished)
	s.articles.EXPECT().Get(s.ctx, int64(5)).Return(view(5, model.StatusPublished, ptr(42), ptr(7)), nil)

	got, err := s.service.Publish(s.ctx, s.editor, 5)
	s.Require().NoError(err)
	s.Equal(model.StatusPublished, got.Status)
	s.Equal(int64(7), *got.EditorID)
}

func (s *ServiceTestSuite) TestPublish_Rejections() {
	_, err := s.service.Publish(s.ctx, s.writer, 5)
	s.True(errors.Is(err, model.ErrForbidden), "writers never publish")

	s.articles.EXPECT().Publish(s.ctx, int64(99), int64(7)).Return(int64(0), nil)
	_, err = s.service.Publish(s.ctx, s.editor, 99)
	s.True(errors.Is(err, model.ErrNotFound))
}

func (s *ServiceTestSuite) TestDelete() {
	s.articles.EXPECT().Delete(s.ctx, int64(5)).Return(int64(1), nil)
	s.recorder.EXPECT().Transition(s.ctx, TransitionDeleted)
	s.NoError(s.service.Delete(s.ctx, s.editor, 5))

	s.articles.EXPECT().Delete(s.ctx, int64(99)).Return(int64(0), nil)
	s.True(errors.Is(s.service.Delete(s.ctx, s.editor, 99), model.ErrNotFound))

	s.True(errors.Is(s.service.Delete(s.ctx, s.writer, 5), model.ErrForbidden))
}

func (s *ServiceTestSuite) TestStoreFailuresAreNotClassified() {
	s.articles.EXPECT().List(s.ctx).Return(nil, model.ErrStoreUnavailable)

	_, err := s.service.List(s.ctx)
	s.True(errors.Is(err, model.ErrStoreUnavailable))
	s.False(errors.Is(err, model.ErrNotFound))
}

// Create as writer 42, publish as editor 7, then the writer is locked out.
func (s *ServiceTestSuite) TestLifecycleExample() {
	stored := view(1, model.StatusForEdit, ptr(42), nil)

	s.companies.EXPECT().Get(s.ctx, int64(1)).Return(s.company, nil).Times(2)
	s.articles.EXPECT().Insert(s.ctx, gomock.Any()).Return(int64(1), nil)
	s.articles.EXPECT().Publish(s.ctx, int64(1), int64(7)).DoAndReturn(func(context.Context, int64, int64) (int64, error) {
		stored = view(1, model.StatusPublished, ptr(42), ptr(7))
		return 1, nil
	})
	s.articles.EXPECT().Get(s.ctx, int64(1)).DoAndReturn(func(context.Context, int64) (*model.ArticleView, error) {
		return stored, nil
	}).Times(3)
	s.recorder.EXPECT().Transition(s.ctx, TransitionCreated)
	s.recorder.EXPECT().Transition(s.ctx, TransitionPublished)

	created, err := s.service.Create(s.ctx, s.writer, draft())
	s.Require().NoError(err)
	s.Equal(model.StatusForEdit, created.Status)
	s.Equal(int64(42), *created.WriterID)
	s.Nil(created.EditorID)

	published, err := s.service.Publish(s.ctx, s.editor, created.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusPublished, published.Status)
	s.Equal(int64(7), *published.EditorID)

	_, err = s.service.Update(s.ctx, s.writer, created.ID, draft())
	s.True(errors.Is(err, model.ErrForbidden))
}
