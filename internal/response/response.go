// Package response provides the JSON envelope helpers used by all handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venueworks/service-booking/internal/apperr"
)

// Envelope is the standard response wrapper.
type Envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// PageMeta describes pagination state for list responses.
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// PaginatedEnvelope wraps a page of items with its metadata.
type PaginatedEnvelope struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Data: data})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, PaginatedEnvelope{
		Data: items,
		Meta: PageMeta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Error: message})
}

// Error maps an application error onto the appropriate HTTP status.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindInvalidState:
		status = http.StatusUnprocessableEntity
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, Envelope{Error: message})
}
