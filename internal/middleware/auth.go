package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// Auth rejects requests without a valid bearer token. The error message is
// the one clients match on to redirect to the login flow.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseIdentity(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// but lets anonymous requests through. Used on reads that enrich responses
// for logged-in viewers.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := parseIdentity(c, secret); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id, or 0 when the request
// carries no identity.
func CurrentUserID(c *gin.Context) int {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0
	}
	id, _ := v.(int)
	return id
}

func parseIdentity(c *gin.Context, secret string) (int, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	// numeric claims decode as float64
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}

	return int(rawID), true
}
