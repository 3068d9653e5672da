package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/aviator/config"
)

// AdminAuth guards the admin routes (override refresh). With auth disabled
// every request passes. Bearer token and Basic Auth are both accepted.
func AdminAuth(cfg config.AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || bearerOK(c.Request, cfg.Token) || basicOK(c.Request, cfg.Username, cfg.Password) {
			c.Next()
			return
		}

		c.Header("WWW-Authenticate", `Basic realm="aviator admin"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized: valid credentials required for admin API access",
		})
	}
}

func bearerOK(r *http.Request, token string) bool {
	header := r.Header.Get("Authorization")
	if token == "" || !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	return equal(strings.TrimPrefix(header, "Bearer "), token)
}

func basicOK(r *http.Request, username, password string) bool {
	if username == "" || password == "" {
		return false
	}
	u, p, ok := r.BasicAuth()
	// Evaluate both comparisons so timing does not reveal which one failed.
	userMatch := equal(u, username)
	passMatch := equal(p, password)
	return ok && userMatch && passMatch
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
