package middleware

import (
	"strings"

	"productstore-backend/internal/session"
	"productstore-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and resolves the session.
// A syntactically valid JWT whose session was deactivated (logout) is
// rejected, so pending calls after sign-out fail here.
func AuthMiddleware(jwtManager *jwt.Manager, sessions *session.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token from "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}
		token := parts[1]

		// 2. Verify signature and claims
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// 3. The session must still be active
		profile, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(500, gin.H{"error": "session lookup failed"})
			c.Abort()
			return
		}
		if profile == nil {
			c.JSON(401, gin.H{"error": "session expired or signed out"})
			c.Abort()
			return
		}

		c.Set("userID", profile.UserID)
		c.Set("sessionToken", token)
		c.Set("userEmail", claims.Email)

		c.Next()
	}
}
