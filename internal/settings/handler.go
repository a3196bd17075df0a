package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"upnext/pkg/logger"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/config", h.get)
	rg.POST("/config", h.save)
}

func (h *Handler) get(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.All())
}

func (h *Handler) save(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}

	if err := h.Store.Save(updates); err != nil {
		logger.Get().WithError(err).Error("save config failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "config": h.Store.All()})
}
