package service

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/user/model"
)

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error)

	// Profiles are viewer-relative: "following" is computed against the
	// optional viewer.
	GetProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*model.Profile, error)
	Follow(ctx context.Context, followerID uuid.UUID, username string) (*model.Profile, error)
	Unfollow(ctx context.Context, followerID uuid.UUID, username string) (*model.Profile, error)
}
