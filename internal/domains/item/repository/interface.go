package repository

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/item/model"
)

type ItemRepository interface {
	// Create persists a new item; returns model.ErrSlugConflict when the
	// slug's unique index rejects it so the caller can retry with a
	// fresh suffix.
	Create(ctx context.Context, item *model.Item) error

	GetBySlug(ctx context.Context, slug string) (*model.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)

	// Update writes title/description/image/tag_list only.
	Update(ctx context.Context, item *model.Item) error

	// Delete removes the item and cascades to its comments and favorite
	// rows in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page plus the total count matching the filter.
	List(ctx context.Context, filter *model.ItemFilter) ([]model.Item, int, error)

	// Feed is List restricted to sellers the user follows.
	Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Item, int, error)

	ListTags(ctx context.Context) ([]string, error)
}

// FavoriteRepository owns the user<->item favorite relation and keeps the
// item's denormalized count in step with it.
type FavoriteRepository interface {
	// Add favorites an item for a user (no-op when already favorited)
	// and returns the refreshed favorites count.
	Add(ctx context.Context, userID, itemID uuid.UUID) (int, error)

	// Remove is the idempotent inverse of Add.
	Remove(ctx context.Context, userID, itemID uuid.UUID) (int, error)

	IsFavorited(ctx context.Context, userID, itemID uuid.UUID) (bool, error)

	// FavoritedSet reports which of the given items the user has
	// favorited; used to stamp list responses.
	FavoritedSet(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}
