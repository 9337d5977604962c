package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mygamelist/backend/pkg/token"
)

// CookieName is the cookie carrying the auth token.
const CookieName = "token"

const claimsKey = "claims"

// tokenFromRequest extracts the bearer credential from the token cookie,
// falling back to the Authorization header for non-browser clients.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Middleware fails closed: requests without a valid, unrevoked token are
// rejected with 401 and never reach the downstream handler.
func Middleware(secret []byte, denylist *Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "access denied, no token provided"})
			return
		}

		claims, err := token.Parse(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		revoked, err := denylist.Revoked(c.Request.Context(), claims.ID)
		if err != nil || revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the identity attached by Middleware. It must only be
// called from handlers behind Middleware.
func ClaimsFrom(c *gin.Context) *token.Claims {
	v, _ := c.Get(claimsKey)
	claims, _ := v.(*token.Claims)
	return claims
}

// AdminOnly requires the authenticated identity to carry the admin flag.
// It must be used after Middleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied, insufficient privileges"})
			return
		}
		c.Next()
	}
}

// SelfOrAdmin requires the :id path parameter to match the authenticated
// user, unless the identity carries the admin flag. It must be used after
// Middleware.
func SelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || (!claims.IsAdmin && c.Param("id") != claims.UserID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied, insufficient privileges"})
			return
		}
		c.Next()
	}
}
