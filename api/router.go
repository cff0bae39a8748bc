package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Establishes HTTP router.
func (service *Service) setupRouter(server *http.Server) {
	router := gin.Default()

	router.Use(service.corsMiddleware())

	router.GET(PingURL, func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	router.GET(TagsURL, service.listTags)

	docGroup := router.Group("/").Use(service.documentSizeMiddleware())
	docGroup.POST(ParseURL, service.parseDocument)
	docGroup.POST(PlainURL, service.renderPlain)

	server.Handler = router
	service.router = router
}
