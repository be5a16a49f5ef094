package articlerequest

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
	"github.com/SergeyParamoshkin/writerhub/internal/reqparse"
)

// formSlack bounds the non-file part of a multipart body.
const formSlack = 1 << 20

// ArticleRequest is the request payload of POST /articles and
// PUT /articles/{articleID}.
//
// id, status, writerId and editorId are decoded only so Bind can discard
// them: the server owns those fields.
type ArticleRequest struct {
	Image     string `json:"image"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	CompanyID int64  `json:"companyId"`

	ProtectedID       int64  `json:"id"`
	ProtectedStatus   string `json:"status"`
	ProtectedWriterID *int64 `json:"writerId"`
	ProtectedEditorID *int64 `json:"editorId"`

	file   multipart.File
	header *multipart.FileHeader
	form   *multipart.Form
}

// Bind on ArticleRequest will run after the unmarshalling is complete.
func (a *ArticleRequest) Bind(r *http.Request) error {
	a.ProtectedID = 0
	a.ProtectedStatus = ""
	a.ProtectedWriterID = nil
	a.ProtectedEditorID = nil

	a.Image = strings.TrimSpace(a.Image)
	a.Title = strings.TrimSpace(a.Title)
	a.Link = strings.TrimSpace(a.Link)
	a.Date = strings.TrimSpace(a.Date)

	return nil
}

// Draft converts the request for the lifecycle service.
func (a *ArticleRequest) Draft() model.ArticleDraft {
	d := model.ArticleDraft{
		Image:     a.Image,
		Title:     a.Title,
		Link:      a.Link,
		Date:      a.Date,
		Content:   a.Content,
		CompanyID: a.CompanyID,
	}

	if a.file != nil {
		d.ImageFile = &model.ImageFile{Filename: a.header.Filename, Body: a.file}
	}

	return d
}

// Close releases the uploaded file and any temporary files of the form.
func (a *ArticleRequest) Close() error {
	if a.file != nil {
		_ = a.file.Close()
	}

	if a.form != nil {
		return a.form.RemoveAll()
	}

	return nil
}

// Parse decodes an article from either a JSON body or a
// multipart/form-data body whose "image" part holds the file. Images larger
// than maxSize are rejected. Callers must Close the result.
func Parse(w http.ResponseWriter, r *http.Request, maxSize int64) (*ArticleRequest, error) {
	data := &ArticleRequest{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := reqparse.Bind(r, data); err != nil {
			return nil, err
		}

		return data, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formSlack)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, model.NewError(model.ErrValidation, "Image exceeds %d bytes", maxSize)
		}

		return nil, errors.Wrap(model.NewError(model.ErrValidation, "Malformed form data"), err.Error())
	}
	data.form = r.MultipartForm

	data.Image = r.FormValue("image")
	data.Title = r.FormValue("title")
	data.Link = r.FormValue("link")
	data.Date = r.FormValue("date")
	data.Content = r.FormValue("content")

	if raw := strings.TrimSpace(r.FormValue("companyId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			_ = data.Close()
			return nil, model.NewError(model.ErrValidation, "companyId must be a positive integer")
		}
		data.CompanyID = id
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		_ = data.Close()
		return nil, errors.Wrap(model.NewError(model.ErrValidation, "Malformed image upload"), err.Error())
	case header.Size > maxSize:
		_ = file.Close()
		_ = data.Close()
		return nil, model.NewError(model.ErrValidation, "Image exceeds %d bytes", maxSize)
	default:
		data.file = file
		data.header = header
	}

	if err := data.Bind(r); err != nil {
		_ = data.Close()
		return nil, err
	}

	return data, nil
}
