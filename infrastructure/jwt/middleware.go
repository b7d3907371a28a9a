// Package jwt provides HMAC bearer-token authentication for gin routes.
package jwt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

// QueryParam is the query parameter checked when no Authorization header is
// present. Browsers cannot set headers on websocket upgrades.
const QueryParam = "token"

var (
	errMissingToken  = errors.New("missing bearer token")
	errBadAuthHeader = errors.New("invalid authorization header format")
	errSigningMethod = errors.New("unexpected signing method")
)

// Claims are the token claims stored on the gin context.
type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// Middleware rejects requests without a valid HS256/384/512 token signed
// with secret.
func Middleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		raw, err := tokenFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := Parse(raw, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Parse validates raw against key and returns its claims.
func Parse(raw string, key []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errSigningMethod
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func tokenFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query(QueryParam); q != "" {
			return q, nil
		}
		return "", errMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadAuthHeader
	}
	return token, nil
}

// GetClaims returns the claims set by Middleware.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
