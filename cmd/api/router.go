package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupProfileRoutes(v1, c)
		setupItemRoutes(v1, c)
		setupTagRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.GetCurrentUser)
		users.PUT("/me", c.UserHandler.UpdateCurrentUser)
	}
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(v1 *gin.RouterGroup, c *container.Container) {
	profiles := v1.Group("/profiles")
	{
		profiles.GET("/:username", middleware.OptionalAuthMiddleware(c.JWTManager), c.ProfileHandler.GetProfile)

		authed := profiles.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("/:username/follow", c.ProfileHandler.Follow)
			authed.DELETE("/:username/follow", c.ProfileHandler.Unfollow)
		}
	}
}

// ========================================
// ITEM ROUTES
// ========================================
func setupItemRoutes(v1 *gin.RouterGroup, c *container.Container) {
	items := v1.Group("/items")
	{
		// Public reads: the optional middleware resolves the viewer when a
		// token is present so favorited/following flags come back correct.
		items.GET("", middleware.OptionalAuthMiddleware(c.JWTManager), c.ItemHandler.List)
		items.GET("/:slug", middleware.OptionalAuthMiddleware(c.JWTManager), c.ItemHandler.Get)
		items.GET("/:slug/comments", middleware.OptionalAuthMiddleware(c.JWTManager), c.CommentHandler.List)

		authed := items.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.GET("/feed", c.ItemHandler.Feed)
			authed.POST("", c.ItemHandler.Create)
			authed.PUT("/:slug", c.ItemHandler.Update)
			authed.DELETE("/:slug", c.ItemHandler.Delete)

			authed.POST("/:slug/favorite", c.ItemHandler.Favorite)
			authed.DELETE("/:slug/favorite", c.ItemHandler.Unfavorite)

			authed.POST("/:slug/comments", c.CommentHandler.Create)
			authed.DELETE("/:slug/comments/:id", c.CommentHandler.Delete)
		}
	}
}

// ========================================
// TAG ROUTES
// ========================================
func setupTagRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/tags", c.ItemHandler.ListTags)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Redis being down degrades nothing user-visible, so it never
		// flips the status code.
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
