package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/item/model"
	"marketplace-backend/internal/domains/item/repository"
	userrepo "marketplace-backend/internal/domains/user/repository"
	"marketplace-backend/internal/shared/utils"
	"marketplace-backend/pkg/cache"
	"marketplace-backend/pkg/logger"
)

const (
	// maxSlugAttempts bounds retries when the random suffix collides.
	maxSlugAttempts = 5

	itemCacheTTL = 5 * time.Minute
	tagsCacheTTL = time.Minute

	tagsCacheKey = "items:tags"
)

func itemCacheKey(slug string) string {
	return "items:slug:" + slug
}

type itemService struct {
	repo      repository.ItemRepository
	favorites repository.FavoriteRepository
	users     userrepo.UserRepository
	enricher  ImageEnricher // nil when enrichment is disabled
	cache     cache.Cache

	enrichTimeout time.Duration
}

func NewItemService(
	repo repository.ItemRepository,
	favorites repository.FavoriteRepository,
	users userrepo.UserRepository,
	enricher ImageEnricher,
	cacheClient cache.Cache,
	enrichTimeout time.Duration,
) ItemService {
	return &itemService{
		repo:          repo,
		favorites:     favorites,
		users:         users,
		enricher:      enricher,
		cache:         cacheClient,
		enrichTimeout: enrichTimeout,
	}
}

// ========================================
// CREATE
// ========================================

func (s *itemService) Create(ctx context.Context, sellerID uuid.UUID, req model.CreateItemRequest) (*model.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.Item{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		TagList:     req.TagList,
		SellerID:    sellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Enrichment only runs on create, only when no image was supplied,
	// and never fails the creation. The stored description stays the
	// user-supplied value regardless of what the prompt looked like.
	if s.enricher != nil && (item.Image == nil || *item.Image == "") {
		enrichCtx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
		imageURL, err := s.enricher.EnrichImage(enrichCtx, req.Title, req.Description)
		cancel()

		if err != nil {
			logger.Warn("image enrichment failed, creating item without image", err)
		} else {
			item.Image = &imageURL
		}
	}

	// The unique index is the source of truth for slug uniqueness; on a
	// suffix collision we retry with a fresh one.
	var createErr error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		item.Slug = utils.GenerateUniqueSlug(req.Title)
		createErr = s.repo.Create(ctx, item)
		if !errors.Is(createErr, model.ErrSlugConflict) {
			break
		}
	}
	if createErr != nil {
		return nil, createErr
	}

	item.Seller = model.Seller{
		ID:       seller.ID,
		Username: seller.Username,
		Bio:      seller.Bio,
		Image:    seller.Image,
	}

	s.invalidateTags(ctx)

	resp := item.ToResponse(false, false)
	return &resp, nil
}

// ========================================
// READ
// ========================================

func (s *itemService) Get(ctx context.Context, slug string, viewerID *uuid.UUID) (*model.ItemResponse, error) {
	item, err := s.getCached(ctx, slug)
	if err != nil {
		return nil, err
	}

	favorited, following, err := s.viewerFlags(ctx, item, viewerID)
	if err != nil {
		return nil, err
	}

	resp := item.ToResponse(favorited, following)
	return &resp, nil
}

func (s *itemService) getCached(ctx context.Context, slug string) (*model.Item, error) {
	key := itemCacheKey(slug)

	var cached model.Item
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		// cache trouble never fails a read
		logger.Warn("item cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	item, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, item, itemCacheTTL); err != nil {
		logger.Warn("item cache write failed", err)
	}

	return item, nil
}

// ========================================
// UPDATE / DELETE (owner only)
// ========================================

func (s *itemService) Update(ctx context.Context, slug string, requesterID uuid.UUID, req model.UpdateItemRequest) (*model.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if item.SellerID != requesterID {
		return nil, model.ErrNotItemOwner
	}

	// Patch semantics: only fields present in the payload are applied.
	// Slug is never regenerated, even when the title changes.
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Image != nil {
		item.Image = req.Image
	}
	if req.TagList != nil {
		item.TagList = *req.TagList
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateItem(ctx, slug)
	s.invalidateTags(ctx)

	updated, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	resp := updated.ToResponse(false, false)
	return &resp, nil
}

func (s *itemService) Delete(ctx context.Context, slug string, requesterID uuid.UUID) error {
	item, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if item.SellerID != requesterID {
		return model.ErrNotItemOwner
	}

	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return err
	}

	s.invalidateItem(ctx, slug)
	s.invalidateTags(ctx)
	return nil
}

// ========================================
// LIST / FEED
// ========================================

func (s *itemService) List(ctx context.Context, filter model.ItemFilter, viewerID *uuid.UUID) ([]model.ItemResponse, int, error) {
	filter.Normalize(model.DefaultListLimit)

	items, total, err := s.repo.List(ctx, &filter)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.toResponses(ctx, items, viewerID)
	if err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

func (s *itemService) Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ItemResponse, int, error) {
	if limit <= 0 {
		limit = model.DefaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.Feed(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.toResponses(ctx, items, &userID)
	if err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

// ========================================
// FAVORITES
// ========================================

func (s *itemService) Favorite(ctx context.Context, slug string, userID uuid.UUID) (*model.ItemResponse, error) {
	return s.setFavorite(ctx, slug, userID, true)
}

func (s *itemService) Unfavorite(ctx context.Context, slug string, userID uuid.UUID) (*model.ItemResponse, error) {
	return s.setFavorite(ctx, slug, userID, false)
}

func (s *itemService) setFavorite(ctx context.Context, slug string, userID uuid.UUID, favorited bool) (*model.ItemResponse, error) {
	item, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var count int
	if favorited {
		count, err = s.favorites.Add(ctx, userID, item.ID)
	} else {
		count, err = s.favorites.Remove(ctx, userID, item.ID)
	}
	if err != nil {
		return nil, err
	}
	item.FavoritesCount = count

	s.invalidateItem(ctx, slug)

	following, err := s.users.IsFollowing(ctx, userID, item.SellerID)
	if err != nil {
		return nil, err
	}

	resp := item.ToResponse(favorited, following)
	return &resp, nil
}

// ========================================
// TAGS
// ========================================

func (s *itemService) ListTags(ctx context.Context) ([]string, error) {
	var cached []string
	found, err := s.cache.Get(ctx, tagsCacheKey, &cached)
	if err != nil {
		logger.Warn("tags cache read failed", err)
	}
	if found {
		return cached, nil
	}

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, tagsCacheKey, tags, tagsCacheTTL); err != nil {
		logger.Warn("tags cache write failed", err)
	}

	return tags, nil
}

// ========================================
// HELPERS
// ========================================

func (s *itemService) viewerFlags(ctx context.Context, item *model.Item, viewerID *uuid.UUID) (favorited, following bool, err error) {
	if viewerID == nil {
		return false, false, nil
	}

	favorited, err = s.favorites.IsFavorited(ctx, *viewerID, item.ID)
	if err != nil {
		return false, false, err
	}

	following, err = s.users.IsFollowing(ctx, *viewerID, item.SellerID)
	if err != nil {
		return false, false, err
	}

	return favorited, following, nil
}

func (s *itemService) toResponses(ctx context.Context, items []model.Item, viewerID *uuid.UUID) ([]model.ItemResponse, error) {
	favMap := map[uuid.UUID]bool{}
	folMap := map[uuid.UUID]bool{}

	if viewerID != nil && len(items) > 0 {
		itemIDs := make([]uuid.UUID, 0, len(items))
		sellerIDs := make([]uuid.UUID, 0, len(items))
		seen := map[uuid.UUID]bool{}
		for _, item := range items {
			itemIDs = append(itemIDs, item.ID)
			if !seen[item.SellerID] {
				seen[item.SellerID] = true
				sellerIDs = append(sellerIDs, item.SellerID)
			}
		}

		var err error
		favMap, err = s.favorites.FavoritedSet(ctx, *viewerID, itemIDs)
		if err != nil {
			return nil, err
		}

		folMap, err = s.users.FollowingSet(ctx, *viewerID, sellerIDs)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]model.ItemResponse, len(items))
	for i := range items {
		responses[i] = items[i].ToResponse(favMap[items[i].ID], folMap[items[i].SellerID])
	}

	return responses, nil
}

func (s *itemService) invalidateItem(ctx context.Context, slug string) {
	if err := s.cache.Delete(ctx, itemCacheKey(slug)); err != nil {
		logger.Warn("item cache invalidation failed", err)
	}
}

func (s *itemService) invalidateTags(ctx context.Context) {
	if err := s.cache.Delete(ctx, tagsCacheKey); err != nil {
		logger.Warn("tags cache invalidation failed", err)
	}
}
