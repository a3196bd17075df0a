package compose

import (
	"fmt"

	"github.com/google/uuid"

	"upnext/pkg/models"
)

// Default per-unit values seeded when details are first enabled.
const (
	defaultEpisodes    = 12
	defaultDurationMin = 20
	defaultAvgWords    = 2000
)

// NumericField names one of the per-child numeric fields.
type NumericField string

const (
	FieldEpisodes NumericField = "episodes"
	FieldDuration NumericField = "duration"
	FieldChapters NumericField = "chapters"
	FieldAvgWords NumericField = "avgWords"
)

// AddChild appends a season/volume with a position-derived default
// title and type-appropriate default numbers. Details start disabled,
// so the defaults stay inert until the user opts in.
func (ct *Controller) AddChild() (models.ChildRecord, error) {
	if !ct.open {
		return models.ChildRecord{}, ErrNoDraft
	}

	child := models.ChildRecord{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("%s %d", ct.draft.Type.ChildPrefix(), len(ct.draft.Children)+1),
	}
	seedDefaults(&child, ct.draft.Type)

	ct.draft.Children = append(ct.draft.Children, child)
	ct.recompute()
	return child.Clone(), nil
}

// RemoveChild deletes the record at index. Titles of the remaining
// records are left as materialized; nothing is renumbered.
func (ct *Controller) RemoveChild(index int) error {
	if err := ct.checkChildIndex(index); err != nil {
		return err
	}
	ct.draft.Children = append(ct.draft.Children[:index], ct.draft.Children[index+1:]...)
	ct.recompute()
	return nil
}

func (ct *Controller) SetChildTitle(index int, title string) error {
	if err := ct.checkChildIndex(index); err != nil {
		return err
	}
	ct.draft.Children[index].Title = title
	return nil
}

// SetChildRating applies toggle semantics: setting the current value
// again clears the rating to 0.
func (ct *Controller) SetChildRating(index, rating int) error {
	if err := ct.checkChildIndex(index); err != nil {
		return err
	}
	if rating < 0 || rating > 4 {
		return fmt.Errorf("rating out of range: %d", rating)
	}
	c := &ct.draft.Children[index]
	if c.Rating == rating {
		c.Rating = 0
	} else {
		c.Rating = rating
	}
	return nil
}

// ToggleChildDetails gates the per-unit numbers. Values are kept when
// details are switched off, so switching back on restores the previous
// contribution; on first enable the type defaults are seeded.
func (ct *Controller) ToggleChildDetails(index int, enabled bool) error {
	if err := ct.checkChildIndex(index); err != nil {
		return err
	}
	c := &ct.draft.Children[index]
	c.HasDetails = enabled
	if enabled {
		seedDefaults(c, ct.draft.Type)
	}
	ct.recompute()
	return nil
}

// SetChildNumber writes one numeric field. Negative or garbled input is
// clamped to 0; aggregation-relevant edits trigger a recompute unless
// totals are overridden.
func (ct *Controller) SetChildNumber(index int, field NumericField, value int) error {
	if err := ct.checkChildIndex(index); err != nil {
		return err
	}
	if value < 0 {
		value = 0
	}
	c := &ct.draft.Children[index]
	switch field {
	case FieldEpisodes:
		c.Episodes = &value
	case FieldDuration:
		c.DurationMin = &value
	case FieldChapters:
		c.Chapters = &value
	case FieldAvgWords:
		c.AvgWords = &value
	default:
		return fmt.Errorf("unknown numeric field: %q", field)
	}
	ct.recompute()
	return nil
}

func (ct *Controller) checkChildIndex(index int) error {
	if !ct.open {
		return ErrNoDraft
	}
	if index < 0 || index >= len(ct.draft.Children) {
		return fmt.Errorf("child index out of range: %d", index)
	}
	return nil
}

// seedDefaults fills numeric fields that were never touched. Existing
// values, including explicit zeros, are kept.
func seedDefaults(c *models.ChildRecord, t models.MediaType) {
	if t.Episodic() {
		if c.Episodes == nil {
			c.Episodes = intPtr(defaultEpisodes)
		}
		if c.DurationMin == nil {
			c.DurationMin = intPtr(defaultDurationMin)
		}
		return
	}
	if t.Reading() {
		// chapters intentionally stay unset until the user types them
		if c.AvgWords == nil {
			c.AvgWords = intPtr(defaultAvgWords)
		}
	}
}

func intPtr(v int) *int { return &v }
