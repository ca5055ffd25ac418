package model

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	usermodel "marketplace-backend/internal/domains/user/model"
)

type CreateCommentRequest struct {
	Body string `json:"body"`
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 5000)),
	)
}

type CommentResponse struct {
	ID        uuid.UUID         `json:"id"`
	Body      string            `json:"body"`
	CreatedAt time.Time         `json:"created_at"`
	Author    usermodel.Profile `json:"author"`
}

func (c *Comment) ToResponse(followingAuthor bool) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		Author:    c.Author.ToProfile(followingAuthor),
	}
}
