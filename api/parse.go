package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Drolfothesgnir/bbtext/tmpstore"
)

type ParseRequest struct {
	Text string `json:"text" binding:"required"`
}

// parseDocument responds with the item tree, the parsed text and the warnings of the document.
func (service *Service) parseDocument(ctx *gin.Context) {
	var req ParseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(
			http.StatusBadRequest,
			NewErrorResponse(ErrInvalidParams, ExtractErrorFields(err)...))
		return
	}

	if !service.checkSize(ctx, req.Text) {
		return
	}

	key := tmpstore.DocumentKey(tmpstore.DocumentPrefix, service.variant, req.Text)
	if service.cached(ctx, key) {
		return
	}

	p, err := service.newParser()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(err))
		return
	}

	if err := p.Parse(req.Text); err != nil {
		log.Error().Err(err).Msg("failed to parse document")
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(fmt.Errorf("%w: %w", ErrParseFailed, err)))
		return
	}

	if err := p.Finish(); err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(fmt.Errorf("%w: %w", ErrParseFailed, err)))
		return
	}

	data, err := json.Marshal(p.Serialize())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(err))
		return
	}

	service.respond(ctx, key, data)
}

// checkSize aborts with 413 when the text is over the configured limit.
func (service *Service) checkSize(ctx *gin.Context, text string) bool {
	limit := service.config.MaxDocumentBytes
	if limit > 0 && len(text) > limit {
		err := fmt.Errorf("%w: limit is %d bytes", ErrDocumentTooLarge, limit)
		ctx.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse(err))
		return false
	}
	return true
}
