package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Drolfothesgnir/bbtext/bbcode"
	"github.com/Drolfothesgnir/bbtext/plaintext"
	"github.com/Drolfothesgnir/bbtext/tmpstore"
)

type PlainRequest struct {
	Text string `json:"text" binding:"required"`
	// Query is searched in the display text when not empty.
	Query string `json:"query" binding:"max=256"`
}

type PlainResponse struct {
	Text     string              `json:"text"`
	Segments []plaintext.Segment `json:"segments"`
	Matches  []plaintext.Match   `json:"matches,omitempty"`
	Warnings []bbcode.Warning    `json:"warnings"`
}

// renderPlain responds with the display text of the document.
func (service *Service) renderPlain(ctx *gin.Context) {
	var req PlainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(
			http.StatusBadRequest,
			NewErrorResponse(ErrInvalidParams, ExtractErrorFields(err)...))
		return
	}

	if !service.checkSize(ctx, req.Text) {
		return
	}

	key := tmpstore.DocumentKey(tmpstore.PlainTextPrefix, service.variant, req.Query+"\x00"+req.Text)
	if service.cached(ctx, key) {
		return
	}

	r := plaintext.NewRenderer()

	p, err := service.newParser(r)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(err))
		return
	}

	if err := p.Parse(req.Text); err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(fmt.Errorf("%w: %w", ErrParseFailed, err)))
		return
	}

	if err := p.Finish(); err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(fmt.Errorf("%w: %w", ErrParseFailed, err)))
		return
	}

	resp := PlainResponse{
		Text:     r.String(),
		Segments: r.Segments(),
		Warnings: p.Warnings(),
	}

	if resp.Segments == nil {
		resp.Segments = []plaintext.Segment{}
	}

	if resp.Warnings == nil {
		resp.Warnings = []bbcode.Warning{}
	}

	if req.Query != "" {
		resp.Matches = r.Find(req.Query)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(err))
		return
	}

	service.respond(ctx, key, data)
}
