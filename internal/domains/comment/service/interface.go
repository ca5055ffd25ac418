package service

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/comment/model"
)

type CommentService interface {
	Create(ctx context.Context, slug string, authorID uuid.UUID, req model.CreateCommentRequest) (*model.CommentResponse, error)
	Delete(ctx context.Context, commentID, requesterID uuid.UUID) error
	ListByItem(ctx context.Context, slug string, viewerID *uuid.UUID) ([]model.CommentResponse, error)
}
