package models

import "time"

// ExternalLink is a labelled URL attached to an item (official site,
// tracker page, storefront, ...).
type ExternalLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// MediaItem is the canonical form of one library entry. It is both the
// persisted row shape and the snapshot the composition engine hands to
// the save path, so the JSON tags match the camelCase wire format the
// SPA expects.
type MediaItem struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Type   MediaType `json:"type"`
	Status Status    `json:"status"`
	Rating int       `json:"rating"` // 0-4, 0 = unrated

	Progress    string `json:"progress"`
	Description string `json:"description"`
	Review      string `json:"review"`
	Notes       string `json:"notes"`

	Universe     string `json:"universe"`
	Series       string `json:"series"`
	SeriesNumber string `json:"seriesNumber"`

	CoverURL string `json:"coverUrl"`
	IsHidden bool   `json:"isHidden"`

	Authors         []string       `json:"authors"`
	AlternateTitles []string       `json:"alternateTitles"`
	Abbreviations   []string       `json:"abbreviations"`
	NoAbbreviations bool           `json:"noAbbreviations"` // when true the abbreviation list is forced empty
	Tags            []string       `json:"tags"`
	ExternalLinks   []ExternalLink `json:"externalLinks"`

	Children       []ChildRecord `json:"children"`
	Totals         Totals        `json:"totals"`
	OverrideTotals bool          `json:"overrideTotals"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// HasCoverImage reports whether cover bytes are stored on the row.
	// It is derived by the repo and never serialized; the API layer
	// turns it into a cache-busted /images URL.
	HasCoverImage bool `json:"-"`
}

// Clone returns a deep copy of the item. The engine uses it to take
// snapshots for dirty tracking and to hand data across the save
// boundary without sharing slices.
func (m MediaItem) Clone() MediaItem {
	out := m
	out.Authors = append([]string(nil), m.Authors...)
	out.AlternateTitles = append([]string(nil), m.AlternateTitles...)
	out.Abbreviations = append([]string(nil), m.Abbreviations...)
	out.Tags = append([]string(nil), m.Tags...)
	out.ExternalLinks = append([]ExternalLink(nil), m.ExternalLinks...)
	out.Children = make([]ChildRecord, len(m.Children))
	for i, c := range m.Children {
		out.Children[i] = c.Clone()
	}
	return out
}

// Clone copies the record including its numeric pointers.
func (c ChildRecord) Clone() ChildRecord {
	out := c
	out.Episodes = cloneInt(c.Episodes)
	out.DurationMin = cloneInt(c.DurationMin)
	out.Chapters = cloneInt(c.Chapters)
	out.AvgWords = cloneInt(c.AvgWords)
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
