// Package client is a typed Go client for the writerhub HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

type Client struct {
	http.Client
	Addr string

	// Token is sent as the bearer credential. Login sets it.
	Token string
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("writerhub: %d %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type User struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

// UserInput is the body of user create and update calls.
type UserInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

type Company struct {
	ID     int64  `json:"id"`
	Logo   string `json:"logo"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type Article struct {
	ID         int64   `json:"id"`
	Image      string  `json:"image"`
	Title      string  `json:"title"`
	Link       string  `json:"link"`
	Date       string  `json:"date"`
	Content    string  `json:"content"`
	Status     string  `json:"status"`
	WriterID   *int64  `json:"writerId"`
	EditorID   *int64  `json:"editorId"`
	CompanyID  int64   `json:"companyId"`
	WriterName *string `json:"writerName"`
	EditorName *string `json:"editorName"`
}

// ArticleInput is the body of article create and update calls.
type ArticleInput struct {
	Image     string `json:"image,omitempty"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	CompanyID int64  `json:"companyId"`
}

// Session is the login result. On the wire the user fields and both
// tokens share one object.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
}

func (s *Session) UnmarshalJSON(b []byte) error {
	type tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	var t tokens
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	if err := json.Unmarshal(b, &s.User); err != nil {
		return err
	}
	s.AccessToken, s.RefreshToken = t.AccessToken, t.RefreshToken

	return nil
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Login authenticates and keeps the access credential for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &s); err != nil {
		return nil, err
	}
	c.Token = s.AccessToken

	return &s, nil
}

// Refresh exchanges a refresh credential for a new access credential.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", body, &out); err != nil {
		return "", err
	}

	return out.AccessToken, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPost, "/users", in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in UserInput) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPut, "/users/"+itoa(id), in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/"+itoa(id), nil, nil)
}

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var out []Company
	if err := c.doJSON(ctx, http.MethodGet, "/companies", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetCompany(ctx context.Context, id int64) (*Company, error) {
	var out Company
	if err := c.doJSON(ctx, http.MethodGet, "/companies/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateCompany(ctx context.Context, in Company) (*Company, error) {
	var out Company
	if err := c.doJSON(ctx, http.MethodPost, "/companies", in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id int64, in Company) (*Company, error) {
	var out Company
	if err := c.doJSON(ctx, http.MethodPut, "/companies/"+itoa(id), in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/companies/"+itoa(id), nil, nil)
}

func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	var out []Article
	if err := c.doJSON(ctx, http.MethodGet, "/articles", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetArticle(ctx context.Context, id int64) (*Article, error) {
	var out Article
	if err := c.doJSON(ctx, http.MethodGet, "/articles/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) (*Article, error) {
	var out Article
	if err := c.doJSON(ctx, http.MethodPost, "/articles", in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CreateArticleWithImage uploads image as multipart/form-data along with
// the article fields.
func (c *Client) CreateArticleWithImage(ctx context.Context, in ArticleInput, filename string, image io.Reader) (*Article, error) {
	var out Article
	if err := c.doMultipart(ctx, http.MethodPost, "/articles", in, filename, image, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id int64, in ArticleInput) (*Article, error) {
	var out Article
	if err := c.doJSON(ctx, http.MethodPut, "/articles/"+itoa(id), in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) PublishArticle(ctx context.Context, id int64) (*Article, error) {
	var out Article
	if err := c.doJSON(ctx, http.MethodPatch, "/articles/"+itoa(id)+"/publish", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/articles/"+itoa(id), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(raw)
	}

	return c.do(ctx, method, path, body, "application/json", out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, in ArticleInput, filename string, image io.Reader, out interface{}) error {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fields := map[string]string{
		"title":     in.Title,
		"link":      in.Link,
		"date":      in.Date,
		"content":   in.Content,
		"companyId": itoa(in.CompanyID),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return errors.Wrap(err, "encode form")
		}
	}

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return errors.Wrap(err, "encode form")
	}
	if _, err := io.Copy(part, image); err != nil {
		return errors.Wrap(err, "encode image")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "encode form")
	}

	return c.do(ctx, method, path, buf, mw.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "undecodable response: " + err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}

		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "decode response data")
		}
	}

	return nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
