// Package envelope renders successful responses in the uniform
// {success, message?, data?} shape.
package envelope

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response is the success half of the envelope; errresponse.ErrResponse is
// the failure half.
type Response struct {
	HTTPStatusCode int `json:"-"`

	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Render sets the status and lets the payload pre-process itself. render
// only walks fields typed as Renderer, so Data is handled here.
func (e *Response) Render(w http.ResponseWriter, r *http.Request) error {
	if e.HTTPStatusCode != 0 {
		render.Status(r, e.HTTPStatusCode)
	}

	switch data := e.Data.(type) {
	case render.Renderer:
		return data.Render(w, r)
	case []render.Renderer:
		for _, item := range data {
			if err := item.Render(w, r); err != nil {
				return err
			}
		}
	}

	return nil
}

// OK wraps data with a 200 status.
func OK(data interface{}) *Response {
	return &Response{HTTPStatusCode: http.StatusOK, Success: true, Data: data}
}

// Created wraps a freshly created resource with a 201 status.
func Created(message string, data interface{}) *Response {
	return &Response{HTTPStatusCode: http.StatusCreated, Success: true, Message: message, Data: data}
}

// Message is a 200 carrying a message and optional data.
func Message(message string, data interface{}) *Response {
	return &Response{HTTPStatusCode: http.StatusOK, Success: true, Message: message, Data: data}
}
