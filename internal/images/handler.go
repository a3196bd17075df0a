package images

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CoverSource is where stored cover bytes come from; the library repo
// satisfies it.
type CoverSource interface {
	GetCover(ctx context.Context, id string) ([]byte, string, error)
}

type Handler struct {
	Covers CoverSource
}

func NewHandler(covers CoverSource) *Handler {
	return &Handler{Covers: covers}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/images/:id", h.serve)
}

// serve streams an item's stored cover image.
func (h *Handler) serve(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	data, mime, err := h.Covers.GetCover(c.Request.Context(), id)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	c.Data(http.StatusOK, mime, data)
}
