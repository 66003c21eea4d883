package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/glowmart/beauty-shop-api/internal/dto"
)

const identityKey = "identity"

// Identity is the authenticated caller, extracted from the JWT once per
// request.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   string
}

// Auth verifies the bearer token and stores the caller's Identity in the
// request context. Tokens of blocked accounts are rejected outright.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		if blocked, _ := claims["blocked"].(bool); blocked {
			abort(c, http.StatusForbidden, "account is blocked")
			return
		}

		email, _ := claims["email"].(string)
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)
		c.Set(identityKey, Identity{UserID: userID, Email: email, Name: name, Role: role})
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. It must run after
// Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "insufficient permissions")
	}
}

func GetIdentity(c *gin.Context) Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(Identity)
	return identity
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.Envelope{Success: false, Message: message})
}
