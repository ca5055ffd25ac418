package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/domains/user/repository"
	"marketplace-backend/pkg/jwt"
)

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// bcrypt cost 12: balance between security and login latency
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	newUser := &model.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(passwordHash),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// do not reveal whether the email exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u.ToDTO(),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}
	if req.Image != nil {
		u.Image = req.Image
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

// ========================================
// PROFILES & FOLLOWING
// ========================================

func (s *userService) GetProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*model.Profile, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != nil {
		following, err = s.repo.IsFollowing(ctx, *viewerID, u.ID)
		if err != nil {
			return nil, err
		}
	}

	profile := u.ToProfile(following)
	return &profile, nil
}

func (s *userService) Follow(ctx context.Context, followerID uuid.UUID, username string) (*model.Profile, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if u.ID == followerID {
		return nil, model.ErrSelfFollow
	}

	if err := s.repo.Follow(ctx, followerID, u.ID); err != nil {
		return nil, err
	}

	profile := u.ToProfile(true)
	return &profile, nil
}

func (s *userService) Unfollow(ctx context.Context, followerID uuid.UUID, username string) (*model.Profile, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Unfollow(ctx, followerID, u.ID); err != nil {
		return nil, err
	}

	profile := u.ToProfile(false)
	return &profile, nil
}
