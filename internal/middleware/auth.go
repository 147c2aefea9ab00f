package middleware

import (
	"net/http"
	"strings"

	"bookclub/internal/pkg/jwt"
	"bookclub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRoleID = "role_id"
	ContextClaims = "claims"
)

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth guards a route group with a bearer access token. A missing token
// is 401, an invalid or expired one is 403. Any valid token is accepted;
// there is no role check here.
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err != nil {
			response.AbortFail(c, http.StatusForbidden, "Access token is invalid or expired")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRoleID, claims.RoleID)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// bearerToken returns the second space separated part of the header.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
