package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets the shop's SPA call the API from another origin. Credentials
// travel in the Authorization header, so a wildcard origin is fine.
func CORS() gin.HandlerFunc {
	headers := map[string]string{
		"Access-Control-Allow-Origin":   "*",
		"Access-Control-Allow-Methods":  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		"Access-Control-Allow-Headers":  "Authorization, Content-Type, X-Request-ID",
		"Access-Control-Expose-Headers": "X-Request-ID",
	}
	return func(c *gin.Context) {
		for k, v := range headers {
			c.Header(k, v)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
