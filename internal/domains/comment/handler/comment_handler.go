package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-backend/internal/domains/comment/model"
	"marketplace-backend/internal/domains/comment/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	comment, err := h.service.Create(c.Request.Context(), c.Param("slug"), userID, req)
	if err != nil {
		model.HandleCommentError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.service.ListByItem(c.Request.Context(), c.Param("slug"), middleware.OptionalUserID(c))
	if err != nil {
		model.HandleCommentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comments)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), commentID, userID); err != nil {
		model.HandleCommentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
