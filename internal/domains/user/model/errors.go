package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"marketplace-backend/internal/shared/response"
	"marketplace-backend/pkg/logger"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrSelfFollow            = errors.New("cannot follow yourself")
)

var userErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrUserNotFound:          {http.StatusNotFound, "NOT_FOUND", "The specified user does not exist"},
	ErrEmailAlreadyExists:    {http.StatusConflict, "CONFLICT", "This email is already registered"},
	ErrUsernameAlreadyExists: {http.StatusConflict, "CONFLICT", "This username is already taken"},
	ErrInvalidCredentials:    {http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password"},
	ErrSelfFollow:            {http.StatusBadRequest, "BAD_REQUEST", "You cannot follow yourself"},
}

// HandleUserError writes the mapped response and reports whether err was
// handled. Unknown errors become a 500.
func HandleUserError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
		return true
	}

	for sentinel, cfg := range userErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	logger.Error("user operation failed", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
