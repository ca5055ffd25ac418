package service

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/item/model"
)

// ImageEnricher is the external port that may produce an image for an
// item submitted without one. Best effort: callers treat any error as
// "no image" and never fail the surrounding operation.
type ImageEnricher interface {
	EnrichImage(ctx context.Context, title, description string) (string, error)
}

type ItemService interface {
	Create(ctx context.Context, sellerID uuid.UUID, req model.CreateItemRequest) (*model.ItemResponse, error)
	Get(ctx context.Context, slug string, viewerID *uuid.UUID) (*model.ItemResponse, error)
	Update(ctx context.Context, slug string, requesterID uuid.UUID, req model.UpdateItemRequest) (*model.ItemResponse, error)
	Delete(ctx context.Context, slug string, requesterID uuid.UUID) error

	List(ctx context.Context, filter model.ItemFilter, viewerID *uuid.UUID) ([]model.ItemResponse, int, error)
	Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ItemResponse, int, error)

	Favorite(ctx context.Context, slug string, userID uuid.UUID) (*model.ItemResponse, error)
	Unfavorite(ctx context.Context, slug string, userID uuid.UUID) (*model.ItemResponse, error)

	ListTags(ctx context.Context) ([]string, error)
}
