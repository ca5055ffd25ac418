package repository

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/comment/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Comment, error)
}
