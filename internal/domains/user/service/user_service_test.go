package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/user/model"
	"marketplace-backend/pkg/jwt"
)

// ========================================
// FAKE
// ========================================

type fakeUserRepo struct {
	users   map[uuid.UUID]*model.User
	follows map[[2]uuid.UUID]bool // [follower, followee]
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   map[uuid.UUID]*model.User{},
		follows: map[[2]uuid.UUID]bool{},
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return model.ErrEmailAlreadyExists
		}
		if existing.Username == user.Username {
			return model.ErrUsernameAlreadyExists
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	r.follows[[2]uuid.UUID{followerID, followeeID}] = true
	return nil
}

func (r *fakeUserRepo) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	delete(r.follows, [2]uuid.UUID{followerID, followeeID})
	return nil
}

func (r *fakeUserRepo) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	return r.follows[[2]uuid.UUID{followerID, followeeID}], nil
}

func (r *fakeUserRepo) FollowingSet(ctx context.Context, followerID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := map[uuid.UUID]bool{}
	for _, id := range userIDs {
		if r.follows[[2]uuid.UUID{followerID, id}] {
			result[id] = true
		}
	}
	return result, nil
}

func newTestService() (UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	return NewUserService(repo, manager), repo
}

func register(t *testing.T, svc UserService, username, email string) *model.UserDTO {
	t.Helper()

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

// ========================================
// REGISTER / LOGIN
// ========================================

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()

	user := register(t, svc, "jake", "jake@example.com")
	assert.Equal(t, "jake", user.Username)

	login, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jake@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, user.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "jake",
		Email:    "not-an-email",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "jake", "jake@example.com")

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "jake2",
		Email:    "jake@example.com",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "jake", "jake@example.com")

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "jake@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever-pass",
	})
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

// ========================================
// PROFILES & FOLLOWING
// ========================================

func TestFollowAndProfile(t *testing.T) {
	svc, _ := newTestService()
	jake := register(t, svc, "jake", "jake@example.com")
	register(t, svc, "anna", "anna@example.com")

	jakeID := uuid.MustParse(jake.ID)

	profile, err := svc.Follow(context.Background(), jakeID, "anna")
	require.NoError(t, err)
	assert.True(t, profile.Following)

	viewed, err := svc.GetProfile(context.Background(), "anna", &jakeID)
	require.NoError(t, err)
	assert.True(t, viewed.Following)

	anon, err := svc.GetProfile(context.Background(), "anna", nil)
	require.NoError(t, err)
	assert.False(t, anon.Following)
}

func TestUnfollow(t *testing.T) {
	svc, _ := newTestService()
	jake := register(t, svc, "jake", "jake@example.com")
	register(t, svc, "anna", "anna@example.com")

	jakeID := uuid.MustParse(jake.ID)

	_, err := svc.Follow(context.Background(), jakeID, "anna")
	require.NoError(t, err)

	profile, err := svc.Unfollow(context.Background(), jakeID, "anna")
	require.NoError(t, err)
	assert.False(t, profile.Following)

	viewed, err := svc.GetProfile(context.Background(), "anna", &jakeID)
	require.NoError(t, err)
	assert.False(t, viewed.Following)
}

func TestSelfFollowRejected(t *testing.T) {
	svc, _ := newTestService()
	jake := register(t, svc, "jake", "jake@example.com")

	_, err := svc.Follow(context.Background(), uuid.MustParse(jake.ID), "jake")
	require.ErrorIs(t, err, model.ErrSelfFollow)
}

func TestUpdateProfilePatchesFields(t *testing.T) {
	svc, _ := newTestService()
	jake := register(t, svc, "jake", "jake@example.com")

	bio := "I sell lamps"
	updated, err := svc.UpdateProfile(context.Background(), uuid.MustParse(jake.ID), model.UpdateProfileRequest{
		Bio: &bio,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Bio)
	assert.Equal(t, "I sell lamps", *updated.Bio)
	assert.Equal(t, "jake", updated.Username)
	assert.Equal(t, "jake@example.com", updated.Email)
}
