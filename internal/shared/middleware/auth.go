package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-backend/pkg/jwt"
)

const userIDKey = "userID"

// AuthMiddleware rejects requests without a valid access token and puts the
// authenticated user's ID into the gin context.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromHeader(c, jwtManager)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a valid token is present but
// lets anonymous requests through. Listing and read endpoints use it so that
// per-viewer fields (favorited, following) can still be computed.
func OptionalAuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := userIDFromHeader(c, jwtManager); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

func userIDFromHeader(c *gin.Context, jwtManager *jwt.Manager) (uuid.UUID, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return uuid.Nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, false
	}

	claims, err := jwtManager.ValidateAccessToken(parts[1])
	if err != nil {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

// CurrentUserID reads the authenticated user's ID set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// OptionalUserID returns a pointer so callers can pass "maybe a viewer"
// straight into the services.
func OptionalUserID(c *gin.Context) *uuid.UUID {
	if userID, ok := CurrentUserID(c); ok {
		return &userID
	}
	return nil
}
