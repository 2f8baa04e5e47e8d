// Package errors holds the service error taxonomy and the Gin response
// helpers mapping it onto HTTP status codes: bad_request -> 400,
// unauthorized -> 401, anything store-side -> 500.
package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingFilename = errors.New("filename is required")
	ErrEmptyPartSet    = errors.New("parts list is empty")
	ErrBadPartSet      = errors.New("part numbers must be contiguous from 1 with no duplicates")
	ErrEmptyCompose    = errors.New("compose requires at least one source object")
)

type HTTPError struct {
	Error string `json:"error" example:"error message"`
}

func BadRequestResponse(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, HTTPError{Error: msg})
}

func UnauthorizedResponse(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, HTTPError{Error: msg})
}

func InternalServerErrorResponse(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, HTTPError{Error: msg})
}
