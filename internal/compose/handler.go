package compose

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"upnext/internal/images"
	"upnext/internal/library"
	synchub "upnext/internal/sync"
	"upnext/pkg/logger"
	"upnext/pkg/models"
)

// maxCoverBytes caps cover uploads at 10 MiB.
const maxCoverBytes = 10 << 20

// Handler exposes the composition session over HTTP. The SPA is a thin
// view: every wizard interaction calls back into the one controller
// held here, and the draft state lives server-side for the lifetime of
// the modal session.
//
// The handler also acts as the controller's persistence collaborator:
// Save writes the snapshot and any pending cover image through the
// library repo and broadcasts the change.
type Handler struct {
	mu   sync.Mutex
	ctrl *Controller

	items *library.Repo
	hub   *synchub.Hub

	pendingCover []byte
	pendingMime  string
}

func NewHandler(items *library.Repo, tags TagRegistry, vis *Visibility, hub *synchub.Hub) *Handler {
	h := &Handler{items: items, hub: hub}
	h.ctrl = NewController(vis, h, tags, h, logger.Get())
	return h
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/compose/open", h.openSession)
	rg.GET("/compose/state", h.state)
	rg.POST("/compose/close", h.closeSession)
	rg.POST("/compose/submit", h.submit)

	rg.POST("/compose/media-type", h.setMediaType)
	rg.POST("/compose/status", h.setStatus)
	rg.POST("/compose/rating", h.setRating)
	rg.POST("/compose/hidden", h.setHidden)
	rg.POST("/compose/text", h.setText)

	rg.POST("/compose/collections", h.editCollection)
	rg.POST("/compose/title/swap", h.swapTitle)
	rg.POST("/compose/abbreviations/auto", h.setAbbrevAuto)
	rg.POST("/compose/links", h.editLink)

	rg.POST("/compose/children", h.addChild)
	rg.DELETE("/compose/children/:index", h.removeChild)
	rg.POST("/compose/children/:index/title", h.setChildTitle)
	rg.POST("/compose/children/:index/rating", h.setChildRating)
	rg.POST("/compose/children/:index/details", h.setChildDetails)
	rg.POST("/compose/children/:index/number", h.setChildNumber)

	rg.POST("/compose/totals", h.setTotal)
	rg.POST("/compose/totals/override", h.setOverride)

	rg.POST("/compose/step/next", h.nextStep)
	rg.POST("/compose/step/prev", h.prevStep)
	rg.POST("/compose/step/jump", h.jumpStep)

	rg.POST("/compose/cover", h.uploadCover)
	rg.POST("/compose/cover/crop", h.setCrop)
}

// Save implements Saver for the controller.
func (h *Handler) Save(ctx context.Context, snapshot models.MediaItem) (models.MediaItem, error) {
	now := time.Now().UTC()
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
		snapshot.CreatedAt = now
	} else if snapshot.CreatedAt.IsZero() {
		if existing, err := h.items.Get(ctx, snapshot.ID); err == nil && existing != nil {
			snapshot.CreatedAt = existing.CreatedAt
		} else {
			snapshot.CreatedAt = now
		}
	}
	snapshot.UpdatedAt = now

	if err := h.items.Upsert(ctx, snapshot); err != nil {
		return models.MediaItem{}, err
	}
	if h.pendingCover != nil {
		if err := h.items.SetCover(ctx, snapshot.ID, h.pendingCover, h.pendingMime); err != nil {
			return models.MediaItem{}, err
		}
		h.pendingCover = nil
		h.pendingMime = ""
	}

	saved, err := h.items.Get(ctx, snapshot.ID)
	if err != nil {
		return models.MediaItem{}, err
	}

	if h.hub != nil {
		go h.hub.BroadcastJSON(synchub.ItemEvent{
			Type:   synchub.EventItemUpdate,
			ItemID: saved.ID,
			Title:  saved.Title,
			At:     time.Now().UTC(),
		})
	}
	return *saved, nil
}

// Notify implements Notifier by pushing a toast event to the SPA.
func (h *Handler) Notify(level, message string) {
	if h.hub == nil {
		return
	}
	go h.hub.BroadcastJSON(gin.H{"type": "toast", "level": level, "message": message})
}

func (h *Handler) openSession(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req struct {
		ID string `json:"id"`
	}
	_ = c.ShouldBindJSON(&req)

	if req.ID == "" {
		h.ctrl.Open(nil)
		h.pendingCover = nil
		h.pendingMime = ""
		c.JSON(http.StatusOK, h.stateBody())
		return
	}

	existing, err := h.items.Get(c.Request.Context(), req.ID)
	if err != nil {
		logger.Get().WithError(err).WithField("id", req.ID).Error("open compose session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "load failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "not found"})
		return
	}

	h.ctrl.Open(existing)
	h.pendingCover = nil
	h.pendingMime = ""
	c.JSON(http.StatusOK, h.stateBody())
}

func (h *Handler) state(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.ctrl.IsOpen() {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "no open draft"})
		return
	}
	c.JSON(http.StatusOK, h.stateBody())
}

func (h *Handler) stateBody() gin.H {
	steps := h.ctrl.IncludableSteps()
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.String()
	}

	mode := "wizard"
	if h.ctrl.Mode() == ModeEdit {
		mode = "edit"
	}

	return gin.H{
		"status":         "success",
		"mode":           mode,
		"currentStep":    h.ctrl.CurrentStep().String(),
		"maxReachedStep": int(h.ctrl.MaxReachedStep()),
		"steps":          names,
		"draft":          h.ctrl.Draft(),
		"isDirty":        h.ctrl.IsDirty(),
	}
}

func (h *Handler) closeSession(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req struct {
		Discard bool `json:"discard"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.ctrl.Close(req.Discard); err != nil {
		// dirty draft: the UI must show the discard confirmation
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "unsaved changes", "dirty": true})
		return
	}
	h.pendingCover = nil
	h.pendingMime = ""
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) submit(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	saved, err := h.ctrl.Submit(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "item": saved})
}

func (h *Handler) setMediaType(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetMediaType(models.MediaType(req.Type)) })
}

func (h *Handler) setStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetStatus(models.Status(req.Status)) })
}

func (h *Handler) setRating(c *gin.Context) {
	var req struct {
		Value int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetRating(req.Value) })
}

func (h *Handler) setHidden(c *gin.Context) {
	var req struct {
		Hidden bool `json:"hidden"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetHidden(req.Hidden) })
}

func (h *Handler) setText(c *gin.Context) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetText(TextField(req.Field), req.Value) })
}

func (h *Handler) editCollection(c *gin.Context) {
	var req struct {
		Collection string `json:"collection"`
		Op         string `json:"op"`
		Value      string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error {
		if req.Op == "remove" {
			return h.ctrl.Remove(Collection(req.Collection), req.Value)
		}
		return h.ctrl.Add(Collection(req.Collection), req.Value)
	})
}

func (h *Handler) swapTitle(c *gin.Context) {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SwapTitle(req.Value) })
}

func (h *Handler) setAbbrevAuto(c *gin.Context) {
	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetNoAbbreviations(req.Disabled) })
}

func (h *Handler) editLink(c *gin.Context) {
	var req struct {
		Op    string `json:"op"`
		Label string `json:"label"`
		URL   string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error {
		if req.Op == "remove" {
			return h.ctrl.RemoveExternalLink(req.URL)
		}
		return h.ctrl.AddExternalLink(req.Label, req.URL)
	})
}

func (h *Handler) addChild(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	child, err := h.ctrl.AddChild()
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "child": child, "draft": h.ctrl.Draft()})
}

func (h *Handler) removeChild(c *gin.Context) {
	index, ok := childIndex(c)
	if !ok {
		return
	}
	h.apply(c, func() error { return h.ctrl.RemoveChild(index) })
}

func (h *Handler) setChildTitle(c *gin.Context) {
	index, ok := childIndex(c)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetChildTitle(index, req.Title) })
}

func (h *Handler) setChildRating(c *gin.Context) {
	index, ok := childIndex(c)
	if !ok {
		return
	}
	var req struct {
		Value int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetChildRating(index, req.Value) })
}

func (h *Handler) setChildDetails(c *gin.Context) {
	index, ok := childIndex(c)
	if !ok {
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.ToggleChildDetails(index, req.Enabled) })
}

func (h *Handler) setChildNumber(c *gin.Context) {
	index, ok := childIndex(c)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value int    `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetChildNumber(index, NumericField(req.Field), req.Value) })
}

func (h *Handler) setTotal(c *gin.Context) {
	var req struct {
		Field string `json:"field"`
		Value int    `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetTotal(TotalsField(req.Field), req.Value) })
}

func (h *Handler) setOverride(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.SetOverrideTotals(req.Enabled) })
}

func (h *Handler) nextStep(c *gin.Context) {
	h.apply(c, func() error { return h.ctrl.NextStep(c.Request.Context()) })
}

func (h *Handler) prevStep(c *gin.Context) {
	h.apply(c, func() error { return h.ctrl.PrevStep(c.Request.Context()) })
}

func (h *Handler) jumpStep(c *gin.Context) {
	var req struct {
		Step int `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	h.apply(c, func() error { return h.ctrl.JumpToStep(c.Request.Context(), StepID(req.Step)) })
}

// uploadCover stages a cover image for the open draft. The bytes are
// held in the session and written on submit.
func (h *Handler) uploadCover(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.ctrl.IsOpen() {
		h.respondErr(c, ErrNoDraft)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "image file required"})
		return
	}
	if file.Size > maxCoverBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"status": "error", "message": "image too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "read upload failed"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "read upload failed"})
		return
	}

	h.pendingCover = data
	h.pendingMime = file.Header.Get("Content-Type")
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// setCrop attaches the crop editor for the staged cover. The crop is
// not applied immediately: the controller awaits it when the user
// navigates off the cover step.
func (h *Handler) setCrop(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.ctrl.IsOpen() {
		h.respondErr(c, ErrNoDraft)
		return
	}
	if h.pendingCover == nil {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "no staged cover image"})
		return
	}

	var rect images.Rect
	if err := c.ShouldBindJSON(&rect); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
		return
	}

	h.ctrl.SetCropSaver(&cropTask{handler: h, rect: rect})
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// cropTask applies the staged crop when the controller leaves the cover
// step.
type cropTask struct {
	handler *Handler
	rect    images.Rect
}

func (t *cropTask) SaveCrop(context.Context) error {
	data, mime, err := images.Crop(t.handler.pendingCover, t.rect)
	if err != nil {
		return err
	}
	t.handler.pendingCover = data
	t.handler.pendingMime = mime
	return nil
}

// apply runs one controller mutation under the session lock and
// answers with the refreshed state.
func (h *Handler) apply(c *gin.Context, fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := fn(); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.stateBody())
}

func (h *Handler) respondErr(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": "error", "step": vErr.Step.String(), "message": vErr.Reason,
		})
	case errors.Is(err, ErrNoDraft):
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "no open draft"})
	case errors.Is(err, ErrTotalsReadOnly), errors.Is(err, ErrCropPending),
		errors.Is(err, ErrStepLocked), errors.Is(err, ErrStepNotIncludable):
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
	}
}

func childIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid index"})
		return 0, false
	}
	return index, true
}
