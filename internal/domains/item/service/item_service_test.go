package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/item/model"
	usermodel "marketplace-backend/internal/domains/user/model"
)

// ========================================
// FAKES
// ========================================

type fakeItemRepo struct {
	items map[string]*model.Item // by slug

	// conflictsLeft makes the next N Create calls fail with a slug
	// conflict, simulating suffix collisions.
	conflictsLeft int
	createCalls   int

	lastFilter *model.ItemFilter
	listItems  []model.Item
	listTotal  int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*model.Item{}}
}

func (r *fakeItemRepo) Create(ctx context.Context, item *model.Item) error {
	r.createCalls++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return model.ErrSlugConflict
	}
	if _, exists := r.items[item.Slug]; exists {
		return model.ErrSlugConflict
	}
	stored := *item
	r.items[item.Slug] = &stored
	return nil
}

func (r *fakeItemRepo) GetBySlug(ctx context.Context, slug string) (*model.Item, error) {
	item, ok := r.items[slug]
	if !ok {
		return nil, model.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	for _, item := range r.items {
		if item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, model.ErrItemNotFound
}

func (r *fakeItemRepo) Update(ctx context.Context, item *model.Item) error {
	stored, ok := r.items[item.Slug]
	if !ok {
		return model.ErrItemNotFound
	}
	stored.Title = item.Title
	stored.Description = item.Description
	stored.Image = item.Image
	stored.TagList = item.TagList
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for slug, item := range r.items {
		if item.ID == id {
			delete(r.items, slug)
			return nil
		}
	}
	return model.ErrItemNotFound
}

func (r *fakeItemRepo) List(ctx context.Context, filter *model.ItemFilter) ([]model.Item, int, error) {
	copied := *filter
	r.lastFilter = &copied
	return r.listItems, r.listTotal, nil
}

func (r *fakeItemRepo) Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Item, int, error) {
	r.lastFilter = &model.ItemFilter{Limit: limit, Offset: offset}
	return r.listItems, r.listTotal, nil
}

func (r *fakeItemRepo) ListTags(ctx context.Context) ([]string, error) {
	return []string{"lamp", "vintage"}, nil
}

type fakeFavoriteRepo struct {
	relation map[[2]uuid.UUID]bool // [user, item]
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{relation: map[[2]uuid.UUID]bool{}}
}

func (r *fakeFavoriteRepo) count(itemID uuid.UUID) int {
	n := 0
	for key := range r.relation {
		if key[1] == itemID {
			n++
		}
	}
	return n
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, userID, itemID uuid.UUID) (int, error) {
	r.relation[[2]uuid.UUID{userID, itemID}] = true
	return r.count(itemID), nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID, itemID uuid.UUID) (int, error) {
	delete(r.relation, [2]uuid.UUID{userID, itemID})
	return r.count(itemID), nil
}

func (r *fakeFavoriteRepo) IsFavorited(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	return r.relation[[2]uuid.UUID{userID, itemID}], nil
}

func (r *fakeFavoriteRepo) FavoritedSet(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := map[uuid.UUID]bool{}
	for _, id := range itemIDs {
		if r.relation[[2]uuid.UUID{userID, id}] {
			result[id] = true
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*usermodel.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*usermodel.User{}}
}

func (r *fakeUserRepo) addUser(username string) uuid.UUID {
	id := uuid.New()
	r.users[id] = &usermodel.User{ID: id, Username: username}
	return id
}

func (r *fakeUserRepo) Create(ctx context.Context, user *usermodel.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*usermodel.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, usermodel.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	return nil, usermodel.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*usermodel.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, usermodel.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *usermodel.User) error { return nil }

func (r *fakeUserRepo) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return nil
}

func (r *fakeUserRepo) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return nil
}

func (r *fakeUserRepo) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) FollowingSet(ctx context.Context, followerID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return map[uuid.UUID]bool{}, nil
}

type fakeEnricher struct {
	url   string
	err   error
	calls int
}

func (e *fakeEnricher) EnrichImage(ctx context.Context, title, description string) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return e.url, nil
}

// noopCache satisfies the cache interface without storing anything, so
// every service read goes to the repository.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (noopCache) Ping(ctx context.Context) error                   { return nil }

// ========================================
// HARNESS
// ========================================

type testEnv struct {
	service   ItemService
	repo      *fakeItemRepo
	favorites *fakeFavoriteRepo
	users     *fakeUserRepo
	enricher  *fakeEnricher
	sellerID  uuid.UUID
}

func newTestEnv(t *testing.T, enricher *fakeEnricher) *testEnv {
	t.Helper()

	repo := newFakeItemRepo()
	favorites := newFakeFavoriteRepo()
	users := newFakeUserRepo()

	var port ImageEnricher
	if enricher != nil {
		port = enricher
	}

	return &testEnv{
		service:   NewItemService(repo, favorites, users, port, noopCache{}, time.Second),
		repo:      repo,
		favorites: favorites,
		users:     users,
		enricher:  enricher,
		sellerID:  users.addUser("jake"),
	}
}

func (e *testEnv) createItem(t *testing.T, title string) *model.ItemResponse {
	t.Helper()

	item, err := e.service.Create(context.Background(), e.sellerID, model.CreateItemRequest{
		Title:       title,
		Description: "a thing",
	})
	require.NoError(t, err)
	return item
}

// ========================================
// CREATE
// ========================================

func TestCreateRequiresTitleAndDescription(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.service.Create(context.Background(), env.sellerID, model.CreateItemRequest{})
	require.Error(t, err)
	assert.Zero(t, env.repo.createCalls)
}

func TestCreateGeneratesSuffixedSlug(t *testing.T) {
	env := newTestEnv(t, nil)

	item := env.createItem(t, "Desk Lamp")
	assert.Regexp(t, `^desk-lamp-[a-z0-9]{6,}$`, item.Slug)
	assert.Equal(t, "jake", item.Seller.Username)
	assert.Zero(t, item.FavoritesCount)
}

func TestCreateRetriesOnSlugConflict(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.conflictsLeft = 2

	item := env.createItem(t, "Lamp")
	assert.Regexp(t, `^lamp-[a-z0-9]{6,}$`, item.Slug)
	assert.Equal(t, 3, env.repo.createCalls)
}

func TestCreateGivesUpAfterRepeatedConflicts(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.conflictsLeft = 10

	_, err := env.service.Create(context.Background(), env.sellerID, model.CreateItemRequest{
		Title:       "Lamp",
		Description: "a lamp",
	})
	require.ErrorIs(t, err, model.ErrSlugConflict)
	assert.Equal(t, 5, env.repo.createCalls)
}

func TestCreateUnknownSeller(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.service.Create(context.Background(), uuid.New(), model.CreateItemRequest{
		Title:       "Lamp",
		Description: "a lamp",
	})
	require.ErrorIs(t, err, usermodel.ErrUserNotFound)
}

// ========================================
// ENRICHMENT
// ========================================

func TestCreateEnrichesMissingImage(t *testing.T) {
	enricher := &fakeEnricher{url: "https://img.example/lamp.png"}
	env := newTestEnv(t, enricher)

	item := env.createItem(t, "Lamp")

	require.NotNil(t, item.Image)
	assert.Equal(t, "https://img.example/lamp.png", *item.Image)
	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, "a thing", item.Description)
}

func TestCreateSurvivesEnrichmentFailure(t *testing.T) {
	enricher := &fakeEnricher{err: errors.New("upstream 500")}
	env := newTestEnv(t, enricher)

	item := env.createItem(t, "Lamp")

	assert.Nil(t, item.Image)
	assert.Equal(t, "a thing", item.Description)
	assert.Equal(t, 1, enricher.calls)
}

func TestCreateSkipsEnrichmentWhenImageProvided(t *testing.T) {
	enricher := &fakeEnricher{url: "https://img.example/generated.png"}
	env := newTestEnv(t, enricher)

	supplied := "https://img.example/mine.png"
	item, err := env.service.Create(context.Background(), env.sellerID, model.CreateItemRequest{
		Title:       "Lamp",
		Description: "a lamp",
		Image:       &supplied,
	})
	require.NoError(t, err)

	require.NotNil(t, item.Image)
	assert.Equal(t, supplied, *item.Image)
	assert.Zero(t, enricher.calls)
}

func TestUpdateNeverEnriches(t *testing.T) {
	enricher := &fakeEnricher{url: "https://img.example/generated.png"}
	env := newTestEnv(t, enricher)

	item := env.createItem(t, "Lamp")
	require.Equal(t, 1, enricher.calls)

	newTitle := "Brighter Lamp"
	_, err := env.service.Update(context.Background(), item.Slug, env.sellerID, model.UpdateItemRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, enricher.calls)
}

// ========================================
// UPDATE / DELETE OWNERSHIP
// ========================================

func TestUpdateKeepsSlugAndPatchesFields(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")

	newTitle := "Better Lamp"
	updated, err := env.service.Update(context.Background(), item.Slug, env.sellerID, model.UpdateItemRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)

	assert.Equal(t, item.Slug, updated.Slug)
	assert.Equal(t, "Better Lamp", updated.Title)
	assert.Equal(t, "a thing", updated.Description)
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")

	stranger := env.users.addUser("mallory")
	newTitle := "Hijacked"
	_, err := env.service.Update(context.Background(), item.Slug, stranger, model.UpdateItemRequest{
		Title: &newTitle,
	})
	require.ErrorIs(t, err, model.ErrNotItemOwner)

	current, err := env.service.Get(context.Background(), item.Slug, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", current.Title)
}

func TestDeleteByNonOwnerForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")

	stranger := env.users.addUser("mallory")
	err := env.service.Delete(context.Background(), item.Slug, stranger)
	require.ErrorIs(t, err, model.ErrNotItemOwner)

	_, err = env.service.Get(context.Background(), item.Slug, nil)
	require.NoError(t, err)
}

func TestDeleteByOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")

	require.NoError(t, env.service.Delete(context.Background(), item.Slug, env.sellerID))

	_, err := env.service.Get(context.Background(), item.Slug, nil)
	require.ErrorIs(t, err, model.ErrItemNotFound)
}

// ========================================
// FAVORITES
// ========================================

func TestFavoriteIncrementsCount(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")

	fan := env.users.addUser("fan")
	favorited, err := env.service.Favorite(context.Background(), item.Slug, fan)
	require.NoError(t, err)

	assert.True(t, favorited.Favorited)
	assert.Equal(t, 1, favorited.FavoritesCount)
}

func TestFavoriteIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")
	fan := env.users.addUser("fan")

	_, err := env.service.Favorite(context.Background(), item.Slug, fan)
	require.NoError(t, err)

	again, err := env.service.Favorite(context.Background(), item.Slug, fan)
	require.NoError(t, err)
	assert.Equal(t, 1, again.FavoritesCount)
}

func TestUnfavoriteIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")
	fan := env.users.addUser("fan")

	removed, err := env.service.Unfavorite(context.Background(), item.Slug, fan)
	require.NoError(t, err)
	assert.False(t, removed.Favorited)
	assert.Zero(t, removed.FavoritesCount)
}

func TestFavoriteUnknownItem(t *testing.T) {
	env := newTestEnv(t, nil)
	fan := env.users.addUser("fan")

	_, err := env.service.Favorite(context.Background(), "no-such-slug", fan)
	require.ErrorIs(t, err, model.ErrItemNotFound)
}

// ========================================
// LIST / FEED DEFAULTS
// ========================================

func TestListAppliesDefaultLimit(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.service.List(context.Background(), model.ItemFilter{}, nil)
	require.NoError(t, err)

	require.NotNil(t, env.repo.lastFilter)
	assert.Equal(t, model.DefaultListLimit, env.repo.lastFilter.Limit)
	assert.Zero(t, env.repo.lastFilter.Offset)
}

func TestListKeepsExplicitPagination(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.service.List(context.Background(), model.ItemFilter{Limit: 7, Offset: 14}, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, env.repo.lastFilter.Limit)
	assert.Equal(t, 14, env.repo.lastFilter.Offset)
}

func TestFeedAppliesDefaultLimit(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.service.Feed(context.Background(), env.sellerID, 0, -3)
	require.NoError(t, err)

	require.NotNil(t, env.repo.lastFilter)
	assert.Equal(t, model.DefaultFeedLimit, env.repo.lastFilter.Limit)
	assert.Zero(t, env.repo.lastFilter.Offset)
}

func TestListStampsViewerFlags(t *testing.T) {
	env := newTestEnv(t, nil)
	item := env.createItem(t, "Lamp")

	fan := env.users.addUser("fan")
	_, err := env.service.Favorite(context.Background(), item.Slug, fan)
	require.NoError(t, err)

	stored, err := env.repo.GetBySlug(context.Background(), item.Slug)
	require.NoError(t, err)
	env.repo.listItems = []model.Item{*stored}
	env.repo.listTotal = 1

	responses, total, err := env.service.List(context.Background(), model.ItemFilter{}, &fan)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, 1, total)
	assert.True(t, responses[0].Favorited)
}
