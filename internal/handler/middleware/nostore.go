package middleware

import "github.com/gin-gonic/gin"

// NoStore keeps proxies and browsers from replaying a response. Scan routes
// change state on GET.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
