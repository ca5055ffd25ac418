package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/domains/user/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// ProfileHandler serves public seller profiles and the follow relation.
type ProfileHandler struct {
	service service.UserService
}

func NewProfileHandler(service service.UserService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")

	profile, err := h.service.GetProfile(c.Request.Context(), username, middleware.OptionalUserID(c))
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.Follow(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.Unfollow(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}
