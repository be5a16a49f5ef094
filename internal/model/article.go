package model

import (
	"io"
	"time"
)

type ArticleStatus string

const (
	StatusForEdit   ArticleStatus = "For Edit"
	StatusPublished ArticleStatus = "Published"
)

// DateLayout is the only accepted format of Article.Date.
const DateLayout = "2006-01-02"

// Article data model. WriterID is stamped once at creation, EditorID only
// when the article gets published.
type Article struct {
	ID        int64         `json:"id" db:"id"`
	Image     string        `json:"image" db:"image"`
	Title     string        `json:"title" db:"title"`
	Link      string        `json:"link" db:"link"`
	Date      string        `json:"date" db:"date"`
	Content   string        `json:"content" db:"content"`
	Status    ArticleStatus `json:"status" db:"status"`
	WriterID  *int64        `json:"writerId" db:"writer_id"`
	EditorID  *int64        `json:"editorId" db:"editor_id"`
	CompanyID int64         `json:"companyId" db:"company_id"`
}

// ArticleView is an Article joined with the display names of its writer
// and editor. Names are nil when nobody is attached.
type ArticleView struct {
	Article
	WriterName *string `json:"writerName" db:"writer_name"`
	EditorName *string `json:"editorName" db:"editor_name"`
}

// IsPublished reports whether writers are locked out of the article.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// OwnedBy reports whether userID wrote the article.
func (a *Article) OwnedBy(userID int64) bool {
	return a.WriterID != nil && *a.WriterID == userID
}

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ArticleDraft carries the writable fields of a create or update. Image is
// a reference string; ImageFile, when set, is uploaded and replaces it.
type ArticleDraft struct {
	Image     string
	Title     string
	Link      string
	Date      string
	Content   string
	CompanyID int64

	ImageFile *ImageFile
}

// ImageFile is an uploaded image not yet persisted.
type ImageFile struct {
	Filename string
	Body     io.Reader
}

// HasImage reports whether the draft brings an image of any kind.
func (d *ArticleDraft) HasImage() bool {
	return d.Image != "" || d.ImageFile != nil
}

// Validate checks every required field. Creates require an image; updates
// fall back to the stored one.
func (d *ArticleDraft) Validate(requireImage bool) error {
	if d.Title == "" || d.Link == "" || d.Date == "" || d.Content == "" || d.CompanyID == 0 {
		return NewError(ErrValidation, "All fields are required")
	}

	if requireImage && !d.HasImage() {
		return NewError(ErrValidation, "All fields are required")
	}

	if d.CompanyID < 0 {
		return NewError(ErrValidation, "companyId must be a positive integer")
	}

	if !ValidDate(d.Date) {
		return NewError(ErrValidation, "Invalid date, expected YYYY-MM-DD")
	}

	return nil
}
