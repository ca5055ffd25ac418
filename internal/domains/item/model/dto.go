package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	usermodel "marketplace-backend/internal/domains/user/model"
)

// ========================================
// REQUEST DTOs
// ========================================

type CreateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       *string  `json:"image"`
	TagList     []string `json:"tag_list"`
}

func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.Description, validation.Required.Error("description is required")),
	)
}

// UpdateItemRequest applies only the fields present in the payload.
// Slug, seller, favorites count and comments are never client-mutable.
type UpdateItemRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	TagList     *[]string `json:"tag_list"`
}

func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty")),
		validation.Field(&r.Description, validation.NilOrNotEmpty.Error("description cannot be empty")),
	)
}

// ========================================
// RESPONSE DTOs
// ========================================

// ItemResponse is the public item representation. Favorited and the
// seller's following flag are relative to the requester and false for
// anonymous viewers.
type ItemResponse struct {
	Slug           string            `json:"slug"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Image          *string           `json:"image,omitempty"`
	TagList        []string          `json:"tag_list"`
	FavoritesCount int               `json:"favorites_count"`
	Favorited      bool              `json:"favorited"`
	Seller         usermodel.Profile `json:"seller"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (i *Item) ToResponse(favorited, followingSeller bool) ItemResponse {
	tags := make([]string, len(i.TagList))
	copy(tags, i.TagList)

	return ItemResponse{
		Slug:           i.Slug,
		Title:          i.Title,
		Description:    i.Description,
		Image:          i.Image,
		TagList:        tags,
		FavoritesCount: i.FavoritesCount,
		Favorited:      favorited,
		Seller: usermodel.Profile{
			Username:  i.Seller.Username,
			Bio:       i.Seller.Bio,
			Image:     i.Seller.Image,
			Following: followingSeller,
		},
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
