package compose

import (
	"context"
	"strings"
	"unicode"
)

// Collection names a repeated-value field on the draft.
type Collection string

const (
	CollectionAuthors         Collection = "authors"
	CollectionAlternateTitles Collection = "alternateTitles"
	CollectionAbbreviations   Collection = "abbreviations"
	CollectionTags            Collection = "tags"
)

// addToSet appends value to an ordered set: whitespace is trimmed,
// empty values and exact duplicates are no-ops, insertion order is
// preserved.
func addToSet(set []string, value string) ([]string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return set, false
	}
	for _, v := range set {
		if v == value {
			return set, false
		}
	}
	return append(set, value), true
}

func removeFromSet(set []string, value string) []string {
	for i, v := range set {
		if v == value {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}

// Add appends a value to the named collection. Tags additionally get
// registered in the global tag registry when they are new; that call is
// fire-and-forget and never blocks the edit.
func (ct *Controller) Add(col Collection, value string) error {
	if !ct.open {
		return ErrNoDraft
	}
	switch col {
	case CollectionAuthors:
		ct.draft.Authors, _ = addToSet(ct.draft.Authors, value)
	case CollectionAlternateTitles:
		ct.draft.AlternateTitles, _ = addToSet(ct.draft.AlternateTitles, value)
	case CollectionAbbreviations:
		if ct.draft.NoAbbreviations {
			return nil
		}
		ct.draft.Abbreviations, _ = addToSet(ct.draft.Abbreviations, strings.ToUpper(strings.TrimSpace(value)))
	case CollectionTags:
		var added bool
		ct.draft.Tags, added = addToSet(ct.draft.Tags, value)
		if added && ct.tags != nil {
			name := strings.TrimSpace(value)
			go func() {
				if err := ct.tags.RegisterIfAbsent(context.Background(), name); err != nil {
					ct.log.WithError(err).WithField("tag", name).Warn("tag registration failed")
				}
			}()
		}
	default:
		return errUnknownCollection(col)
	}
	return nil
}

// Remove drops a value from the named collection; absent values are a
// no-op.
func (ct *Controller) Remove(col Collection, value string) error {
	if !ct.open {
		return ErrNoDraft
	}
	switch col {
	case CollectionAuthors:
		ct.draft.Authors = removeFromSet(ct.draft.Authors, value)
	case CollectionAlternateTitles:
		ct.draft.AlternateTitles = removeFromSet(ct.draft.AlternateTitles, value)
	case CollectionAbbreviations:
		ct.draft.Abbreviations = removeFromSet(ct.draft.Abbreviations, strings.ToUpper(value))
	case CollectionTags:
		ct.draft.Tags = removeFromSet(ct.draft.Tags, value)
	default:
		return errUnknownCollection(col)
	}
	return nil
}

// SwapTitle exchanges the primary title with one of the alternates: the
// chosen alternate becomes the primary, and the old primary is pushed
// into the alternate set (if non-empty and not already there).
func (ct *Controller) SwapTitle(alt string) error {
	if !ct.open {
		return ErrNoDraft
	}
	idx := -1
	for i, v := range ct.draft.AlternateTitles {
		if v == alt {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	old := ct.draft.Title
	ct.draft.AlternateTitles = append(ct.draft.AlternateTitles[:idx], ct.draft.AlternateTitles[idx+1:]...)
	ct.draft.Title = alt
	if old != "" {
		ct.draft.AlternateTitles, _ = addToSet(ct.draft.AlternateTitles, old)
	}
	return nil
}

// SetNoAbbreviations toggles the auto-disable flag. Disabling forces
// the abbreviation list empty; re-enabling regenerates it from the
// current titles rather than leaving it empty.
func (ct *Controller) SetNoAbbreviations(disabled bool) error {
	if !ct.open {
		return ErrNoDraft
	}
	ct.draft.NoAbbreviations = disabled
	if disabled {
		ct.draft.Abbreviations = nil
		return nil
	}
	ct.draft.Abbreviations = generateAbbreviations(ct.draft.Title, ct.draft.AlternateTitles)
	return nil
}

// generateAbbreviations derives uppercase acronyms from the primary and
// alternate titles. Single-letter acronyms are skipped; duplicates are
// collapsed.
func generateAbbreviations(title string, alternates []string) []string {
	var out []string
	for _, t := range append([]string{title}, alternates...) {
		a := acronym(t)
		if len(a) < 2 {
			continue
		}
		out, _ = addToSet(out, a)
	}
	return out
}

func acronym(title string) string {
	var b strings.Builder
	for _, word := range strings.Fields(title) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}

type errUnknownCollection Collection

func (e errUnknownCollection) Error() string {
	return "unknown collection: " + string(e)
}
