package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Drolfothesgnir/bbtext/tmpstore"
)

const jsonContentType = "application/json; charset=utf-8"

// cached writes the stored response if there is one. Cache failures are logged and
// treated as a miss.
func (service *Service) cached(ctx *gin.Context, key string) bool {
	if service.cache == nil {
		return false
	}

	data, err := service.cache.GetResult(ctx, key)
	if err != nil {
		if !errors.Is(err, tmpstore.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("failed to read cached result")
		}
		return false
	}

	ctx.Header(CacheHeader, "HIT")
	ctx.Data(http.StatusOK, jsonContentType, data)
	return true
}

// respond writes the encoded response and stores it in the cache.
func (service *Service) respond(ctx *gin.Context, key string, data []byte) {
	if service.cache != nil {
		if err := service.cache.SaveResult(ctx, key, data, service.config.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache result")
		}
	}

	ctx.Header(CacheHeader, "MISS")
	ctx.Data(http.StatusOK, jsonContentType, data)
}
