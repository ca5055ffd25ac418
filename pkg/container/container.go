package container

import (
	"context"
	"fmt"
	"time"

	"marketplace-backend/internal/config"
	infraCache "marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/internal/infrastructure/database"
	"marketplace-backend/internal/infrastructure/enrichment"
	"marketplace-backend/pkg/cache"
	"marketplace-backend/pkg/jwt"
	"marketplace-backend/pkg/logger"

	commentHandler "marketplace-backend/internal/domains/comment/handler"
	commentRepo "marketplace-backend/internal/domains/comment/repository"
	commentService "marketplace-backend/internal/domains/comment/service"
	itemHandler "marketplace-backend/internal/domains/item/handler"
	itemRepo "marketplace-backend/internal/domains/item/repository"
	itemService "marketplace-backend/internal/domains/item/service"
	userHandler "marketplace-backend/internal/domains/user/handler"
	userRepo "marketplace-backend/internal/domains/user/repository"
	userService "marketplace-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo     userRepo.UserRepository
	ItemRepo     itemRepo.ItemRepository
	FavoriteRepo itemRepo.FavoriteRepository
	CommentRepo  commentRepo.CommentRepository

	UserService    userService.UserService
	ItemService    itemService.ItemService
	CommentService commentService.CommentService

	UserHandler    *userHandler.UserHandler
	ProfileHandler *userHandler.ProfileHandler
	ItemHandler    *itemHandler.ItemHandler
	CommentHandler *commentHandler.CommentHandler
}

// NewContainer wires the application bottom-up: config, infrastructure,
// repositories, services, handlers. Order matters.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("configuration loaded", map[string]interface{}{"environment": cfg.App.Environment})

	db := database.NewPostgresDB(&cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Cache is an accelerator, not a dependency the app dies for.
		logger.Warn("redis connection failed, continuing without warm cache", err)
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.ItemRepo = itemRepo.NewPostgresItemRepository(pool)
	c.FavoriteRepo = itemRepo.NewPostgresFavoriteRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresCommentRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	var enricher itemService.ImageEnricher
	if c.Config.Enrichment.Enabled {
		enricher = enrichment.NewClient(&c.Config.Enrichment)
	}

	c.ItemService = itemService.NewItemService(
		c.ItemRepo,
		c.FavoriteRepo,
		c.UserRepo,
		enricher,
		c.Cache,
		c.Config.Enrichment.Timeout,
	)

	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.ItemRepo, c.UserRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ProfileHandler = userHandler.NewProfileHandler(c.UserService)
	c.ItemHandler = itemHandler.NewItemHandler(c.ItemService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
}

// Cleanup releases held resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
		logger.Info("database connections closed", nil)
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Warn("failed to close redis client", err)
		} else {
			logger.Info("redis connections closed", nil)
		}
	}
}
