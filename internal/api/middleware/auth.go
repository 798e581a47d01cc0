package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kdigolf/caddie/pkg/utils"
)

// Identity keys set on the gin context by the auth middlewares.
const (
	ContextUserID        = "user_id"
	ContextAuthenticated = "authenticated"
)

// AuthRequired validates the Bearer token issued by the external identity
// provider and aborts with 401 when it is missing or invalid. The token
// subject becomes the player id for downstream handlers.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			utils.SendUnauthorized(c, err.Error())
			c.Abort()
			return
		}

		claims, err := validateToken(tokenString, secret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextAuthenticated, true)
		c.Next()
	}
}

// OptionalAuth extracts the identity when a valid Bearer token is present and
// continues anonymously otherwise.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			c.Set(ContextAuthenticated, false)
			c.Next()
			return
		}

		claims, err := validateToken(tokenString, secret)
		if err != nil {
			c.Set(ContextAuthenticated, false)
			c.Next()
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextAuthenticated, true)
		c.Next()
	}
}

// GetUserID returns the authenticated subject, if any.
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

// IsAuthenticated reports whether the request carried a valid token.
func IsAuthenticated(c *gin.Context) bool {
	value, exists := c.Get(ContextAuthenticated)
	if !exists {
		return false
	}
	authenticated, ok := value.(bool)
	return ok && authenticated
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("Authorization header required")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", fmt.Errorf("Bearer token required")
	}
	return tokenString, nil
}

func validateToken(tokenString, secret string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}
