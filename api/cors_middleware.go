package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// handling CORS
func (s *Service) corsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// the service is a public REST API, so every origin is allowed
		ctx.Header("Access-Control-Allow-Origin", "*")

		ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		allowedHeaders := []string{
			"Content-Type",
		}
		ctx.Header("Access-Control-Allow-Headers", strings.Join(allowedHeaders, ","))
		ctx.Header("Access-Control-Expose-Headers", CacheHeader)

		// If someone sends preflight (OPTIONS), respond 204 and return
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
