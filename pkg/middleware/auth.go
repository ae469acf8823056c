package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhonatancruzmail/SkyConnectExplorer/config"
)

// AdminAuth guards cache administration endpoints. When auth is disabled in
// config every request passes. Bearer token and Basic Auth are both accepted.
func AdminAuth(cfg config.AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || authorized(c.Request, cfg) {
			c.Next()
			return
		}

		c.Header("WWW-Authenticate", `Basic realm="SkyConnect Admin"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Unauthorized: valid credentials required for admin API access",
		})
	}
}

func authorized(r *http.Request, cfg config.AdminAuthConfig) bool {
	if header := r.Header.Get("Authorization"); cfg.Token != "" && strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if secureEqual(token, cfg.Token) {
			return true
		}
	}

	if cfg.Username == "" || cfg.Password == "" {
		return false
	}
	username, password, ok := r.BasicAuth()
	// evaluate both comparisons to keep timing independent of which one fails
	userOK := secureEqual(username, cfg.Username)
	passOK := secureEqual(password, cfg.Password)
	return ok && userOK && passOK
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
