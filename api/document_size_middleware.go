package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// jsonOverhead is the room left for the JSON envelope around the document text.
const jsonOverhead = 4 << 10

// documentSizeMiddleware rejects request bodies which can't hold a document within the limit.
func (service *Service) documentSizeMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		limit := int64(service.config.MaxDocumentBytes)
		if limit <= 0 {
			ctx.Next()
			return
		}

		if ctx.Request.ContentLength > limit+jsonOverhead {
			err := fmt.Errorf("%w: limit is %d bytes", ErrDocumentTooLarge, limit)
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, NewErrorResponse(err))
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit+jsonOverhead)
		ctx.Next()
	}
}
