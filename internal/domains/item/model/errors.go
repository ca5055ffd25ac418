package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	usermodel "marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/shared/response"
	"marketplace-backend/pkg/logger"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrNotItemOwner = errors.New("only the item owner may modify it")
	ErrSlugConflict = errors.New("could not allocate a unique slug")
)

var itemErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrItemNotFound:           {http.StatusNotFound, "NOT_FOUND", "The specified item does not exist"},
	ErrNotItemOwner:           {http.StatusForbidden, "FORBIDDEN", "Only the item owner may perform this action"},
	ErrSlugConflict:           {http.StatusConflict, "CONFLICT", "Could not allocate a unique identifier for this title"},
	usermodel.ErrUserNotFound: {http.StatusNotFound, "NOT_FOUND", "The specified user does not exist"},
}

// HandleItemError maps domain errors to HTTP responses. Forbidden stays
// distinguishable from not-found: a non-owner learns they lack permission.
func HandleItemError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
		return true
	}

	for sentinel, cfg := range itemErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	logger.Error("item operation failed", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
