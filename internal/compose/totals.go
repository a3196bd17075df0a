package compose

import (
	"errors"
	"fmt"

	"upnext/pkg/models"
)

// ErrTotalsReadOnly is returned when a totals field is edited in auto
// mode while more than one child record exists.
var ErrTotalsReadOnly = errors.New("totals are derived from seasons/volumes")

// wordsPerPage is the estimation factor for book word counts derived
// from a page count.
const wordsPerPage = 250

// TotalsField names one of the editable aggregate fields. volumeCount
// is always derived and never editable.
type TotalsField string

const (
	TotalEpisodes TotalsField = "episodeCount"
	TotalDuration TotalsField = "avgDurationMinutes"
	TotalChapters TotalsField = "chapterCount"
	TotalWords    TotalsField = "wordCount"
	TotalPages    TotalsField = "pageCount"
)

// recompute refreshes the derived totals from the child records. It is
// called after every child mutation and is a no-op in manual mode.
// It never fails: missing numbers count as zero.
func (ct *Controller) recompute() {
	if !ct.open || ct.draft.OverrideTotals {
		return
	}
	ct.draft.Totals = computeTotals(ct.draft.Type, ct.draft.Children, ct.draft.Totals)
}

// computeTotals applies the per-category aggregation formulas. Children
// with details disabled contribute nothing, whatever numbers they
// store. Scalar fields the user enters directly (movie runtime, manga
// chapter count without volumes, book page count) are carried over from
// the previous totals rather than zeroed.
func computeTotals(t models.MediaType, children []models.ChildRecord, prev models.Totals) models.Totals {
	out := models.Totals{
		VolumeCount: len(children),
		PageCount:   prev.PageCount,
	}

	switch {
	case t == models.TypeMovie:
		// a movie has no children; its duration is a literal scalar
		out.TotalDurationMin = prev.TotalDurationMin

	case t.Episodic():
		for _, c := range children {
			if !c.HasDetails {
				continue
			}
			ep := ival(c.Episodes)
			out.EpisodeCount += ep
			out.TotalDurationMin += ep * ival(c.DurationMin)
		}

	case t == models.TypeBook:
		for _, c := range children {
			if !c.HasDetails {
				continue
			}
			ch := ival(c.Chapters)
			out.ChapterCount += ch
			out.WordCount += ch * ival(c.AvgWords)
		}

	case t == models.TypeManga:
		if len(children) == 0 {
			out.ChapterCount = prev.ChapterCount
			break
		}
		for _, c := range children {
			if !c.HasDetails {
				continue
			}
			out.ChapterCount += ival(c.Chapters)
		}
	}

	return out
}

// SetOverrideTotals switches between derived and manual totals.
// Turning the override off recomputes immediately, discarding whatever
// was entered by hand.
func (ct *Controller) SetOverrideTotals(on bool) error {
	if !ct.open {
		return ErrNoDraft
	}
	if ct.draft.OverrideTotals == on {
		return nil
	}
	ct.draft.OverrideTotals = on
	if !on {
		ct.recompute()
	}
	return nil
}

// SetTotal edits one aggregate field.
//
// Manual mode writes the value directly. In auto mode the edit is only
// legal while at most one child exists: it is inverse-synced into that
// sole child (created on demand), which lets single-season/volume items
// skip child bookkeeping entirely. With two or more children the totals
// are read-only and ErrTotalsReadOnly is returned.
func (ct *Controller) SetTotal(field TotalsField, value int) error {
	if !ct.open {
		return ErrNoDraft
	}
	if value < 0 {
		value = 0
	}

	// The page-count estimate works in either mode: supplying pages
	// without an explicit word count derives one, and flips the
	// override on so a later child recompute cannot clobber it.
	if field == TotalPages {
		ct.draft.Totals.PageCount = value
		if ct.draft.Type == models.TypeBook && ct.draft.Totals.WordCount == 0 && value > 0 {
			ct.draft.Totals.WordCount = value * wordsPerPage
			ct.draft.OverrideTotals = true
		}
		return nil
	}

	if ct.draft.OverrideTotals {
		return ct.setTotalDirect(field, value)
	}

	// Flat-stats types have no child editor; their totals are direct
	// scalars which computeTotals preserves.
	if !ct.draft.Type.HasChildList() {
		if err := ct.setTotalDirect(field, value); err != nil {
			return err
		}
		ct.recompute()
		return nil
	}

	if len(ct.draft.Children) > 1 {
		return ErrTotalsReadOnly
	}
	if len(ct.draft.Children) == 0 {
		if _, err := ct.AddChild(); err != nil {
			return err
		}
		ct.draft.Children[0].HasDetails = true
		seedDefaults(&ct.draft.Children[0], ct.draft.Type)
	}

	if err := inverseSync(&ct.draft.Children[0], field, value); err != nil {
		return err
	}
	ct.draft.Children[0].HasDetails = true
	ct.recompute()
	return nil
}

func (ct *Controller) setTotalDirect(field TotalsField, value int) error {
	switch field {
	case TotalEpisodes:
		ct.draft.Totals.EpisodeCount = value
	case TotalDuration:
		ct.draft.Totals.TotalDurationMin = value
	case TotalChapters:
		ct.draft.Totals.ChapterCount = value
	case TotalWords:
		ct.draft.Totals.WordCount = value
	default:
		return fmt.Errorf("unknown totals field: %q", field)
	}
	return nil
}

// inverseSync back-fills a totals edit into the sole child so that
// re-deriving the totals reproduces the entered value. Per-unit rates
// are divided out against the child's count field, which is bumped to 1
// when unset so the product round-trips.
func inverseSync(c *models.ChildRecord, field TotalsField, value int) error {
	switch field {
	case TotalEpisodes:
		c.Episodes = intPtr(value)
	case TotalDuration:
		ep := ival(c.Episodes)
		if ep < 1 {
			ep = 1
			c.Episodes = intPtr(ep)
		}
		c.DurationMin = intPtr(value / ep)
	case TotalChapters:
		c.Chapters = intPtr(value)
	case TotalWords:
		ch := ival(c.Chapters)
		if ch < 1 {
			ch = 1
			c.Chapters = intPtr(ch)
		}
		c.AvgWords = intPtr(value / ch)
	default:
		return fmt.Errorf("unknown totals field: %q", field)
	}
	return nil
}

func ival(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
