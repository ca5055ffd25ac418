package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/domains/item/model"
	"marketplace-backend/internal/domains/item/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

type ItemHandler struct {
	service service.ItemService
}

func NewItemHandler(service service.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List handles GET /items with tag/seller/favorited filters.
func (h *ItemHandler) List(c *gin.Context) {
	filter := model.ItemFilter{
		Tag:         c.Query("tag"),
		Seller:      c.Query("seller"),
		FavoritedBy: c.Query("favorited"),
		Limit:       queryInt(c, "limit"),
		Offset:      queryInt(c, "offset"),
	}

	items, total, err := h.service.List(c.Request.Context(), filter, middleware.OptionalUserID(c))
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Total:  total,
	})
}

// Feed handles GET /items/feed: items from sellers the user follows.
func (h *ItemHandler) Feed(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")

	items, total, err := h.service.Feed(c.Request.Context(), userID, limit, offset)
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

func (h *ItemHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	item, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("slug"), middleware.OptionalUserID(c))
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("slug"), userID, req)
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("slug"), userID); err != nil {
		model.HandleItemError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ItemHandler) Favorite(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	item, err := h.service.Favorite(c.Request.Context(), c.Param("slug"), userID)
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *ItemHandler) Unfavorite(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	item, err := h.service.Unfavorite(c.Request.Context(), c.Param("slug"), userID)
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *ItemHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		model.HandleItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, tags)
}

// queryInt parses an integer query parameter; absent or malformed values
// fall back to the service defaults via -1.
func queryInt(c *gin.Context, name string) int {
	value := c.Query(name)
	if value == "" {
		return -1
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}
