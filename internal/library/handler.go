package library

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"upnext/internal/sync"
	"upnext/pkg/logger"
	"upnext/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub
}

func NewHandler(repo *Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/items", h.list)
	rg.GET("/items/:id", h.getOne)
	rg.POST("/items", h.save)
	rg.DELETE("/items/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.List(c.Request.Context())
	if err != nil {
		logger.Get().WithError(err).Error("list items failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "list failed"})
		return
	}

	for i := range items {
		rewriteCoverURL(&items[i])
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getOne(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	item, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		logger.Get().WithError(err).WithField("id", id).Error("get item failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "get failed"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "not found"})
		return
	}
	rewriteCoverURL(item)
	c.JSON(http.StatusOK, item)
}

// save creates or updates an item; id presence selects which. This is
// the plain save path the SPA uses outside the composition wizard
// (quick edits from the list view).
func (h *Handler) save(c *gin.Context) {
	var item models.MediaItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}

	if err := Validate(item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	now := time.Now().UTC()
	if item.ID == "" {
		item.ID = uuid.NewString()
		item.CreatedAt = now
	} else if item.CreatedAt.IsZero() {
		if existing, err := h.Repo.Get(c.Request.Context(), item.ID); err == nil && existing != nil {
			item.CreatedAt = existing.CreatedAt
		} else {
			item.CreatedAt = now
		}
	}
	item.UpdatedAt = now

	if err := h.Repo.Upsert(c.Request.Context(), item); err != nil {
		logger.Get().WithError(err).WithField("id", item.ID).Error("save item failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "save failed"})
		return
	}

	saved, err := h.Repo.Get(c.Request.Context(), item.ID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "fetch saved failed"})
		return
	}
	rewriteCoverURL(saved)

	if h.Hub != nil {
		go h.Hub.BroadcastJSON(sync.ItemEvent{
			Type:   sync.EventItemUpdate,
			ItemID: saved.ID,
			Title:  saved.Title,
			At:     time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "item": saved})
}

// remove deletes an item. Deleting an id that does not exist still
// succeeds, matching the original API.
func (h *Handler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		logger.Get().WithError(err).WithField("id", id).Error("delete item failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "delete failed"})
		return
	}

	if ok && h.Hub != nil {
		go h.Hub.BroadcastJSON(sync.ItemEvent{
			Type:   sync.EventItemDelete,
			ItemID: id,
			At:     time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Validate checks the enum and required fields of an item before it is
// persisted.
func Validate(item models.MediaItem) error {
	if !item.Type.Valid() {
		return fmt.Errorf("invalid media type: %q", item.Type)
	}
	if !item.Status.Valid() {
		return fmt.Errorf("invalid status: %q", item.Status)
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if item.Rating < 0 || item.Rating > 4 {
		return fmt.Errorf("rating out of range: %d", item.Rating)
	}
	return nil
}

// rewriteCoverURL points items with a stored cover image at the image
// route, with the update timestamp as a cache buster.
func rewriteCoverURL(item *models.MediaItem) {
	if item.HasCoverImage {
		item.CoverURL = fmt.Sprintf("/images/%s?v=%d", item.ID, item.UpdatedAt.Unix())
	}
}
