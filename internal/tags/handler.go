package tags

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"upnext/pkg/logger"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.list)
	rg.POST("/tags", h.register)
	rg.PUT("/tags/:name", h.update)
	rg.DELETE("/tags/:name", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	tags, err := h.Repo.List(c.Request.Context())
	if err != nil {
		logger.Get().WithError(err).Error("list tags failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "list failed"})
		return
	}
	if tags == nil {
		tags = []Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) register(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "name required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := h.Repo.RegisterIfAbsent(c.Request.Context(), name); err != nil {
		logger.Get().WithError(err).Error("register tag failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "save failed"})
		return
	}

	tag, err := h.Repo.GetByName(c.Request.Context(), name)
	if err != nil || tag == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "fetch saved failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "tag": tag})
}

func (h *Handler) update(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	var req struct {
		Color       string `json:"color"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	if req.Color == "" {
		req.Color = ColorFor(name)
	}

	ok, err := h.Repo.Update(c.Request.Context(), name, req.Color, req.Description)
	if err != nil {
		logger.Get().WithError(err).Error("update tag failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "update failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) remove(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if _, err := h.Repo.Delete(c.Request.Context(), name); err != nil {
		logger.Get().WithError(err).Error("delete tag failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
