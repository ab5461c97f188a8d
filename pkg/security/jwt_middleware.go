package security

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser    = 1
	RoleManager = 2
	RoleAdmin   = 3
)

var roleHierarchy = map[string]int{
	"user":    RoleUser,
	"manager": RoleManager,
	"admin":   RoleAdmin,
}

// JWTMiddleware validates the bearer token and puts {userID, role} on the
// context. The transaction engine stores userID verbatim and never checks
// roles itself; authorization happens here, before the core is invoked.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("userID", claims["userID"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// Authorize ensures the user holds at least the required role.
func Authorize(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		userRole, ok := role.(string)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: invalid role claim"})
			c.Abort()
			return
		}

		if roleHierarchy[userRole] < roleHierarchy[requiredRole] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID reads the authenticated user id off the gin context.
// Returns nil when the claim is absent or malformed.
func CurrentUserID(c *gin.Context) *int {
	raw, exists := c.Get("userID")
	if !exists {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		id := int(v)
		return &id
	case int:
		return &v
	default:
		return nil
	}
}
