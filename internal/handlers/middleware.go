package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quetest-service/internal/apperr"
	"quetest-service/internal/models"
	"quetest-service/internal/service"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// RequireAuth verifies the bearer credential and checks its role. One
// transport for every protected endpoint: the Authorization header.
func RequireAuth(tokens *service.TokenService, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no token found"})
			c.Abort()
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := tokens.Verify(raw)
		if err != nil {
			if errors.Is(err, apperr.ErrExpiredToken) {
				c.JSON(http.StatusForbidden, gin.H{"error": "token has expired"})
			} else {
				c.JSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			}
			c.Abort()
			return
		}
		if claims.Role != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *models.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*models.Claims); ok {
			return claims
		}
	}
	return nil
}

// writeError maps the service error taxonomy onto HTTP statuses. Token
// expiry never reaches here: RequireAuth answers it directly. Anything
// unrecognized is an opaque 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrDuplicate),
		errors.Is(err, apperr.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
