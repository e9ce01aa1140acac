package middleware

import (
	"net/http"
	"strings"

	"seatbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

const adminKey = "admin"

// TokenParser turns a bearer token into the caller's identity.
type TokenParser interface {
	ParseToken(raw string) (domain.RequestContext, error)
}

// RequireAdmin rejects requests without a valid admin bearer token. When
// roles are given the token's role must be one of them.
func RequireAdmin(parser TokenParser, roles ...string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = true
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		rc, err := parser.ParseToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		if len(allowed) > 0 && !allowed[strings.ToUpper(rc.Role)] {
			abort(c, http.StatusForbidden, "forbidden", "role not allowed")
			return
		}
		c.Set(adminKey, rc)
		c.Next()
	}
}

// GetAdmin returns the identity set by RequireAdmin.
func GetAdmin(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}
