package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Drolfothesgnir/bbtext/bbcode"
)

type TagInfo struct {
	Name string `json:"name"`
	// Conversion is the replacement text of a conversion tag.
	Conversion string       `json:"conversion,omitempty"`
	Greed      bbcode.Greed `json:"greed"`
	Void       bool         `json:"void,omitempty"`
}

type TagsResponse struct {
	Tags     []TagInfo `json:"tags"`
	Handlers int       `json:"handlers"`
}

// listTags responds with all the registered tags in alphabetical order.
func (service *Service) listTags(ctx *gin.Context) {
	names := service.registry.Tags()

	resp := TagsResponse{
		Tags:     make([]TagInfo, 0, len(names)),
		Handlers: service.registry.HandlerCount(),
	}

	for _, name := range names {
		info := TagInfo{Name: name}

		if text, ok := service.registry.Conversion(name); ok {
			info.Conversion = text
		} else if e, ok := service.registry.Entry(name); ok {
			info.Greed = e.Greed
			info.Void = e.Void
		}

		resp.Tags = append(resp.Tags, info)
	}

	ctx.JSON(http.StatusOK, resp)
}
