package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/resume-studio/pkg/editor"
	"github.com/pkg/errors"
)

// Response is the envelope for every API reply.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func ok(c *gin.Context, code int, message string, data interface{}) {
	if message == "" {
		message = defaultMessage(code)
	}
	c.JSON(code, Response{Status: StatusSuccess, Message: message, Data: data})
}

func fail(c *gin.Context, code int, err error) {
	message := defaultMessage(code)
	if err != nil {
		message = err.Error()
	}
	c.AbortWithStatusJSON(code, Response{Status: StatusError, Message: message})
}

// failFrom picks the status code for err by its cause.
func failFrom(c *gin.Context, err error) {
	fail(c, statusFor(err), err)
}

func statusFor(err error) (code int) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrUnknownSection),
		errors.Is(err, editor.ErrIndexRange),
		errors.Is(err, editor.ErrInvalidValue),
		errors.Is(err, editor.ErrNoDocument),
		errors.Is(err, ErrBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		code = http.StatusBadGateway
	default:
		code = http.StatusInternalServerError
	}
	return code
}

func defaultMessage(code int) (message string) {
	switch code {
	case http.StatusOK:
		message = "ok"
	case http.StatusCreated:
		message = "created"
	case http.StatusBadRequest:
		message = "bad request"
	case http.StatusNotFound:
		message = "not found"
	case http.StatusBadGateway:
		message = "upstream failure"
	default:
		message = http.StatusText(code)
	}
	return message
}
