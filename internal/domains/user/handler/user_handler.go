package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/domains/user/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	dto, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		model.HandleUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}
