package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BaseHandler provides common functionality for both MCP and API handlers
type BaseHandler struct{}

// NewBaseHandler creates a new base handler
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Error message"`
} // @name ErrorResponse

// SuccessResponse represents a success response
type SuccessResponse struct {
	Path    string `json:"path,omitempty" example:"C:\\Users\\User\\notes.txt"`
	Message string `json:"message" example:"File created successfully"`
} // @name SuccessResponse

// SendError sends a standardized error response
func (h *BaseHandler) SendError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{
		Error: err.Error(),
	})
}

// SendDomainError sends err with the status that matches its cause.
func (h *BaseHandler) SendDomainError(c *gin.Context, err error) {
	h.SendError(c, StatusFor(err), err)
}

// SendSuccess sends a standardized success response
func (h *BaseHandler) SendSuccess(c *gin.Context, path, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Path:    path,
		Message: message,
	})
}

// SendJSON sends a JSON response with the given status code
func (h *BaseHandler) SendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// GetPathParam gets a path parameter and returns an error if it's invalid
func (h *BaseHandler) GetPathParam(c *gin.Context, param string) (string, error) {
	value := c.Param(param)
	if value == "" {
		return "", fmt.Errorf("missing required path parameter: %s", param)
	}
	return value, nil
}

// GetQueryParam gets a query parameter with a default value
func (h *BaseHandler) GetQueryParam(c *gin.Context, param string, defaultValue string) string {
	value := c.Query(param)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolQuery parses a boolean query parameter, accepting what strconv does.
func (h *BaseHandler) GetBoolQuery(c *gin.Context, param string) bool {
	v, err := strconv.ParseBool(c.Query(param))
	return err == nil && v
}

// BindJSON binds the request body to a struct and returns an error if it fails
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// StatusFor maps filesystem and session errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, filesystem.ErrNotFound), errors.Is(err, terminal.ErrSessionUnknown):
		return http.StatusNotFound
	case errors.Is(err, filesystem.ErrIsDirectory), errors.Is(err, filesystem.ErrInvalidName):
		return http.StatusUnprocessableEntity
	case filesystem.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
