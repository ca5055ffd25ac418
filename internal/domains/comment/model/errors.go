package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	itemmodel "marketplace-backend/internal/domains/item/model"
	"marketplace-backend/internal/shared/response"
	"marketplace-backend/pkg/logger"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("only the comment author may delete it")
)

var commentErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrCommentNotFound:        {http.StatusNotFound, "NOT_FOUND", "The specified comment does not exist"},
	ErrNotCommentAuthor:       {http.StatusForbidden, "FORBIDDEN", "Only the comment author may perform this action"},
	itemmodel.ErrItemNotFound: {http.StatusNotFound, "NOT_FOUND", "The specified item does not exist"},
}

// HandleCommentError maps domain errors to HTTP responses. Deleting
// another author's comment yields 403, not 404.
func HandleCommentError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
		return true
	}

	for sentinel, cfg := range commentErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	logger.Error("comment operation failed", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
