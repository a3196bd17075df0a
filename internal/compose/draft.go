package compose

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"

	"upnext/pkg/models"
)

var (
	// ErrDirty is returned by Close when the draft has unsaved changes
	// and the caller did not confirm discarding them.
	ErrDirty = errors.New("draft has unsaved changes")

	// ErrNoDraft is returned when an operation runs without an open
	// composition session.
	ErrNoDraft = errors.New("no open draft")
)

// Mode selects how the step graph is presented.
type Mode int

const (
	// ModeWizard shows one step at a time with a forward validation
	// gate. Used for new entries.
	ModeWizard Mode = iota
	// ModeEdit renders every includable step at once; navigation only
	// tracks the highlighted section.
	ModeEdit
)

// Controller owns the draft of a single composition session. All
// mutations go through its methods; the view layer holds no state of
// its own. A controller is not safe for concurrent use — the session
// is single-threaded by design.
type Controller struct {
	vis    *Visibility
	saver  Saver
	tags   TagRegistry
	notify Notifier
	log    logrus.FieldLogger

	open     bool
	mode     Mode
	draft    models.MediaItem
	baseline models.MediaItem

	current     StepID
	maxReached  StepID
	crop        CropSaver
	cropPending bool
}

func NewController(vis *Visibility, saver Saver, tags TagRegistry, notify Notifier, log logrus.FieldLogger) *Controller {
	if notify == nil {
		notify = nopNotifier{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		vis:    vis,
		saver:  saver,
		tags:   tags,
		notify: notify,
		log:    log,
	}
}

// Open starts a composition session. With existing == nil a fresh
// wizard draft is created; otherwise the draft is hydrated from the
// persisted record and the session runs in edit mode. Any prior session
// state is fully reset first.
func (ct *Controller) Open(existing *models.MediaItem) {
	ct.reset()
	ct.open = true

	if existing == nil {
		ct.mode = ModeWizard
		ct.draft = models.MediaItem{Status: models.StatusPlanning}
		ct.current = StepMediaType
		ct.maxReached = StepMediaType
	} else {
		ct.mode = ModeEdit
		ct.draft = existing.Clone()
		ct.current = firstStep
		ct.maxReached = lastStep
	}

	ct.baseline = ct.draft.Clone()
}

// IsOpen reports whether a session is active.
func (ct *Controller) IsOpen() bool { return ct.open }

func (ct *Controller) Mode() Mode { return ct.mode }

// Draft returns a read-only copy of the in-progress record.
func (ct *Controller) Draft() models.MediaItem { return ct.draft.Clone() }

// IsDirty reports whether any field differs from its value at open
// time. Editing a field back to its original value clears the flag.
func (ct *Controller) IsDirty() bool {
	return ct.open && !reflect.DeepEqual(ct.draft, ct.baseline)
}

// Close tears the session down. A dirty draft needs discard confirmed,
// otherwise ErrDirty is returned and the session stays open.
func (ct *Controller) Close(discardConfirmed bool) error {
	if !ct.open {
		return nil
	}
	if ct.IsDirty() && !discardConfirmed {
		return ErrDirty
	}
	ct.reset()
	return nil
}

// Snapshot produces the serializable form of the draft with totals
// consistent with the child records.
func (ct *Controller) Snapshot() models.MediaItem {
	ct.recompute()
	return ct.draft.Clone()
}

// Submit validates the draft, hands the snapshot to the persistence
// collaborator and, on success, resets the session to empty. On failure
// the draft is left open and untouched so the user can retry.
func (ct *Controller) Submit(ctx context.Context) (models.MediaItem, error) {
	if !ct.open {
		return models.MediaItem{}, ErrNoDraft
	}
	if err := ct.validateForSubmit(); err != nil {
		return models.MediaItem{}, err
	}

	saved, err := ct.saver.Save(ctx, ct.Snapshot())
	if err != nil {
		ct.notify.Notify("error", "Saving failed. Your draft was kept.")
		return models.MediaItem{}, fmt.Errorf("save draft: %w", err)
	}

	ct.reset()
	return saved, nil
}

func (ct *Controller) validateForSubmit() error {
	if !ct.draft.Type.Valid() {
		return fmt.Errorf("invalid media type: %q", ct.draft.Type)
	}
	if !ct.draft.Status.Valid() {
		return fmt.Errorf("invalid status: %q", ct.draft.Status)
	}
	if strings.TrimSpace(ct.draft.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

func (ct *Controller) reset() {
	ct.open = false
	ct.mode = ModeWizard
	ct.draft = models.MediaItem{}
	ct.baseline = models.MediaItem{}
	ct.current = firstStep
	ct.maxReached = firstStep
	ct.crop = nil
	ct.cropPending = false
}

// SetMediaType changes the draft's media category. In wizard mode this
// restarts composition: type-shaped data (children, authors, links,
// cover, long-form text, rating) is cleared and the wizard returns to
// the status step. In edit mode only the type changes; includable steps
// are re-evaluated by the step graph on the next read.
func (ct *Controller) SetMediaType(t models.MediaType) error {
	if !ct.open {
		return ErrNoDraft
	}
	if !t.Valid() {
		return fmt.Errorf("invalid media type: %q", t)
	}
	if ct.draft.Type == t {
		return nil
	}

	if ct.mode == ModeWizard {
		ct.draft = models.MediaItem{
			ID:     ct.draft.ID,
			Title:  ct.draft.Title,
			Type:   t,
			Status: models.StatusPlanning,
		}
		ct.current = StepStatus
		ct.maxReached = StepStatus
		ct.crop = nil
		ct.cropPending = false
		return nil
	}

	ct.draft.Type = t
	ct.recompute()
	return nil
}

func (ct *Controller) SetStatus(s models.Status) error {
	if !ct.open {
		return ErrNoDraft
	}
	if !s.Valid() {
		return fmt.Errorf("invalid status: %q", s)
	}
	ct.draft.Status = s
	return nil
}

// SetRating sets the item-level rating with the same toggle semantics
// as child ratings: picking the current value again clears it.
func (ct *Controller) SetRating(r int) error {
	if !ct.open {
		return ErrNoDraft
	}
	if r < 0 || r > 4 {
		return fmt.Errorf("rating out of range: %d", r)
	}
	if ct.draft.Rating == r {
		ct.draft.Rating = 0
		return nil
	}
	ct.draft.Rating = r
	return nil
}

// TextField names a free-form scalar field on the draft.
type TextField string

const (
	TextTitle        TextField = "title"
	TextProgress     TextField = "progress"
	TextDescription  TextField = "description"
	TextReview       TextField = "review"
	TextNotes        TextField = "notes"
	TextUniverse     TextField = "universe"
	TextSeries       TextField = "series"
	TextSeriesNumber TextField = "seriesNumber"
	TextCoverURL     TextField = "coverUrl"
)

func (ct *Controller) SetText(field TextField, value string) error {
	if !ct.open {
		return ErrNoDraft
	}
	switch field {
	case TextTitle:
		ct.draft.Title = strings.TrimSpace(value)
	case TextProgress:
		ct.draft.Progress = value
	case TextDescription:
		ct.draft.Description = value
	case TextReview:
		ct.draft.Review = value
	case TextNotes:
		ct.draft.Notes = value
	case TextUniverse:
		ct.draft.Universe = value
	case TextSeries:
		ct.draft.Series = value
	case TextSeriesNumber:
		ct.draft.SeriesNumber = value
	case TextCoverURL:
		ct.draft.CoverURL = strings.TrimSpace(value)
	default:
		return fmt.Errorf("unknown text field: %q", field)
	}
	return nil
}

func (ct *Controller) SetHidden(hidden bool) error {
	if !ct.open {
		return ErrNoDraft
	}
	ct.draft.IsHidden = hidden
	return nil
}

// AddExternalLink appends a labelled URL; exact duplicates are dropped.
func (ct *Controller) AddExternalLink(label, url string) error {
	if !ct.open {
		return ErrNoDraft
	}
	label, url = strings.TrimSpace(label), strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	for _, l := range ct.draft.ExternalLinks {
		if l.URL == url {
			return nil
		}
	}
	ct.draft.ExternalLinks = append(ct.draft.ExternalLinks, models.ExternalLink{Label: label, URL: url})
	return nil
}

func (ct *Controller) RemoveExternalLink(url string) error {
	if !ct.open {
		return ErrNoDraft
	}
	for i, l := range ct.draft.ExternalLinks {
		if l.URL == url {
			ct.draft.ExternalLinks = append(ct.draft.ExternalLinks[:i], ct.draft.ExternalLinks[i+1:]...)
			return nil
		}
	}
	return nil
}
