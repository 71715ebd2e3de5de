package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
)

type ErrorResponse = models.ErrorResponse

const internalErrorMessage = "Internal server error"

// BaseHandler carries what every handler shares
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.FromContext(c, h.logger)
}

// LogRequest logs the start of a request at debug level
func (h *BaseHandler) LogRequest(c *gin.Context, message string, args ...any) {
	args = append([]any{"method", c.Request.Method, "path", c.Request.URL.Path}, args...)
	h.log(c).Debug(message, args...)
}

// LogError logs err with the request's logger
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, args ...any) {
	args = append([]any{"error", err, "path", c.Request.URL.Path}, args...)
	h.log(c).Error(message, args...)
}

// handleServiceError maps service errors onto HTTP responses. Validation
// failures are the client's and are returned verbatim with the failing
// fields as details; persistence failures are logged with their cause and
// return only the generic message.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		resp := ErrorResponse{Error: validationErr.Message}
		if len(validationErr.Fields) > 0 {
			resp.Details = validationErr.Fields
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	var persistenceErr *services.PersistenceError
	if errors.As(err, &persistenceErr) {
		h.LogError(c, err, "Request failed", "kind", persistenceErr.Kind)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: persistenceErr.Message})
		return
	}

	h.LogError(c, err, "Unexpected service error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
}
