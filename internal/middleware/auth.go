package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"oracle-bets-backend/internal/ledger"
	"oracle-bets-backend/internal/services"
)

// AuthMiddleware resolves the caller's account id from the bearer token
// and stashes it in the request context.
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
			if tokenString == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				c.Abort()
				return
			}
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Next()
	}
}

// RateLimitMiddleware bounds calls per account and action. A nil store
// disables limiting (memory-backed deployments).
func RateLimitMiddleware(store *ledger.RedisStore, action string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}

		accountID := c.GetString("account_id")
		if accountID == "" {
			c.Next()
			return
		}

		allowed, err := store.CheckRateLimit(c.Request.Context(), accountID, action, limit, ledger.RateLimitWindow)
		if err != nil || !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": ledger.RateLimitWindow.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
