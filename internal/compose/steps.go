package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"upnext/pkg/models"
)

// StepID identifies one step of the composition flow. The sequence is
// fixed; steps are skipped when not includable, never reordered.
type StepID int

const (
	StepMediaType StepID = iota + 1
	StepStatus
	StepCover
	StepBasicInfo
	StepDescription
	StepLinks
	StepProgress
	StepReview
	StepNotes
	StepChildren
	StepPrivacy

	firstStep = StepMediaType
	lastStep  = StepPrivacy
)

var stepNames = map[StepID]string{
	StepMediaType:   "media-type",
	StepStatus:      "status",
	StepCover:       "cover",
	StepBasicInfo:   "basic-info",
	StepDescription: "description",
	StepLinks:       "external-links",
	StepProgress:    "progress",
	StepReview:      "review-rating",
	StepNotes:       "notes",
	StepChildren:    "seasons-volumes",
	StepPrivacy:     "privacy",
}

func (s StepID) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("step-%d", int(s))
}

// stepDef binds a step to the media types it is restricted to (nil
// means all) and the field groups that must all be visible for the step
// to be shown.
type stepDef struct {
	types  []models.MediaType
	fields []FieldKey
}

// Note: the seasons/volumes step carries no field keys on purpose.
// Disabling technical_stats hides the per-child numeric sub-fields but
// never removes the step; Movie and Manga get a flat stats-only variant
// of it, which still counts as includable.
var stepDefs = map[StepID]stepDef{
	StepMediaType:   {},
	StepStatus:      {},
	StepCover:       {fields: []FieldKey{FieldCover}},
	StepBasicInfo:   {},
	StepDescription: {fields: []FieldKey{FieldDescription}},
	StepLinks:       {fields: []FieldKey{FieldExternalLinks}},
	StepProgress:    {fields: []FieldKey{FieldProgress}},
	StepReview:      {fields: []FieldKey{FieldReview}},
	StepNotes:       {fields: []FieldKey{FieldNotes}},
	StepChildren:    {},
	StepPrivacy:     {fields: []FieldKey{FieldPrivacy}},
}

var (
	// ErrCropPending is returned when navigation is attempted while a
	// crop save is already in flight.
	ErrCropPending = errors.New("crop save in progress")

	// ErrStepNotIncludable is returned when jumping to a step the
	// current type/settings exclude.
	ErrStepNotIncludable = errors.New("step not available")

	// ErrStepLocked is returned for forward jumps past the furthest
	// validated step.
	ErrStepLocked = errors.New("step not reached yet")
)

// ValidationError reports why forward navigation out of a step was
// blocked.
type ValidationError struct {
	Step   StepID
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: %s", e.Step, e.Reason)
}

func (ct *Controller) CurrentStep() StepID { return ct.current }

func (ct *Controller) MaxReachedStep() StepID { return ct.maxReached }

// Includable reports whether the step should be shown for the current
// draft: its type restriction matches and every field group it governs
// is visible.
func (ct *Controller) Includable(id StepID) bool {
	def, ok := stepDefs[id]
	if !ok {
		return false
	}
	if len(def.types) > 0 {
		match := false
		for _, t := range def.types {
			if t == ct.draft.Type {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	for _, f := range def.fields {
		if !ct.vis.Visible(f) {
			return false
		}
	}
	return true
}

// IncludableSteps lists the steps to render, in order. Edit mode shows
// all of them at once; wizard mode walks them one at a time.
func (ct *Controller) IncludableSteps() []StepID {
	out := make([]StepID, 0, int(lastStep))
	for id := firstStep; id <= lastStep; id++ {
		if ct.Includable(id) {
			out = append(out, id)
		}
	}
	return out
}

// ValidateStep is a pure required-field check. It never mutates the
// draft; the caller decides whether a failure blocks anything.
func (ct *Controller) ValidateStep(id StepID) (bool, string) {
	switch id {
	case StepMediaType:
		if !ct.draft.Type.Valid() {
			return false, "choose a media type"
		}
	case StepStatus:
		if !ct.draft.Status.Valid() {
			return false, "choose a status"
		}
	case StepBasicInfo:
		if strings.TrimSpace(ct.draft.Title) == "" {
			return false, "title is required"
		}
	}
	return true, ""
}

// SetCropSaver attaches the embedded crop editor for the cover step.
// Passing nil detaches it.
func (ct *Controller) SetCropSaver(cs CropSaver) {
	ct.crop = cs
}

// NextStep advances to the next includable step. Forward navigation
// validates the current step; leaving the cover step with a crop editor
// active first awaits its save and stays put if that fails. Advancing
// past the last step is a no-op.
func (ct *Controller) NextStep(ctx context.Context) error {
	if !ct.open {
		return ErrNoDraft
	}
	if ct.mode == ModeEdit {
		return nil
	}
	if ok, reason := ct.ValidateStep(ct.current); !ok {
		return &ValidationError{Step: ct.current, Reason: reason}
	}

	next := ct.nextIncludable(ct.current)
	if next == 0 {
		return nil
	}
	if err := ct.leaveStep(ctx); err != nil {
		return err
	}
	ct.current = next
	if next > ct.maxReached {
		ct.maxReached = next
	}
	return nil
}

// PrevStep moves to the previous includable step without validating.
// The crop-save await on leaving the cover step still applies.
func (ct *Controller) PrevStep(ctx context.Context) error {
	if !ct.open {
		return ErrNoDraft
	}
	if ct.mode == ModeEdit {
		return nil
	}
	prev := ct.prevIncludable(ct.current)
	if prev == 0 {
		return nil
	}
	if err := ct.leaveStep(ctx); err != nil {
		return err
	}
	ct.current = prev
	return nil
}

// JumpToStep navigates directly to a step. Backward jumps (up to the
// furthest step already reached) are always allowed; a forward jump is
// allowed only when the current step validates, and never skips past
// the next unreached step's gate beyond it. In edit mode this merely
// moves the highlighted section.
func (ct *Controller) JumpToStep(ctx context.Context, id StepID) error {
	if !ct.open {
		return ErrNoDraft
	}
	if id < firstStep || id > lastStep {
		return fmt.Errorf("unknown step: %d", id)
	}
	if !ct.Includable(id) {
		return ErrStepNotIncludable
	}
	if ct.mode == ModeEdit {
		ct.current = id
		return nil
	}
	if id == ct.current {
		return nil
	}

	if id > ct.maxReached {
		if ok, reason := ct.ValidateStep(ct.current); !ok {
			return &ValidationError{Step: ct.current, Reason: reason}
		}
		// direct navigation may not skip ahead of the gate
		if id > ct.nextIncludable(ct.maxReached) {
			return ErrStepLocked
		}
	}

	if err := ct.leaveStep(ctx); err != nil {
		return err
	}
	ct.current = id
	if id > ct.maxReached {
		ct.maxReached = id
	}
	return nil
}

// leaveStep runs the async crop save when navigating off the cover step
// with an active crop editor. Failure aborts the navigation.
func (ct *Controller) leaveStep(ctx context.Context) error {
	if ct.current != StepCover || ct.crop == nil {
		return nil
	}
	if ct.cropPending {
		return ErrCropPending
	}

	ct.cropPending = true
	err := ct.crop.SaveCrop(ctx)
	ct.cropPending = false
	if err != nil {
		ct.notify.Notify("error", "Saving the cropped cover failed.")
		return fmt.Errorf("save crop: %w", err)
	}
	ct.crop = nil
	return nil
}

func (ct *Controller) nextIncludable(from StepID) StepID {
	for id := from + 1; id <= lastStep; id++ {
		if ct.Includable(id) {
			return id
		}
	}
	return 0
}

func (ct *Controller) prevIncludable(from StepID) StepID {
	for id := from - 1; id >= firstStep; id-- {
		if ct.Includable(id) {
			return id
		}
	}
	return 0
}
