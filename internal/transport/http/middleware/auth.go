package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/order-tracker/internal/requestid"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	errUnauthorized = "Unauthorized"

	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth validates an HS256 Bearer token that carries sub and exp, and stores
// the subject as "userID" in the gin context.
func Auth(jwtKey []byte) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return jwtKey, nil }

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		var cl claims
		token, err := parser.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &cl, keyFunc)
		if err != nil || !token.Valid || cl.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(ctxUserID, cl.Subject)
		c.Set(ctxUserEmail, cl.Email)
		c.Request = c.Request.WithContext(requestid.WithUserID(c.Request.Context(), cl.Subject))
		c.Next()
	}
}

// UserID returns the subject set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
