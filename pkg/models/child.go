package models

// ChildRecord is one season (episodic types) or volume (reading types)
// of a media item. Numeric fields are pointers so that "never filled in"
// survives a round trip through JSON; they only become meaningful once
// HasDetails is true.
type ChildRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Rating     int    `json:"rating"` // 0-4, 0 = unrated
	HasDetails bool   `json:"hasDetails"`

	// Episodic types (Anime/Series).
	Episodes    *int `json:"episodes,omitempty"`
	DurationMin *int `json:"duration,omitempty"` // minutes per episode

	// Reading types (Book/Manga).
	Chapters *int `json:"chapters,omitempty"`
	AvgWords *int `json:"avgWords,omitempty"` // words per chapter
}

// Totals is the aggregate summary shown at the item level. Unless the
// user overrides it, it is derived from the child records.
//
// TotalDurationMin keeps the wire name avgDurationMinutes the SPA has
// always used, but for episodic types the stored value is a total
// runtime (episodes x minutes per episode summed over seasons); only
// for Movie is it a single literal duration.
type Totals struct {
	VolumeCount      int `json:"volumeCount"`
	EpisodeCount     int `json:"episodeCount,omitempty"`
	TotalDurationMin int `json:"avgDurationMinutes,omitempty"`
	ChapterCount     int `json:"chapterCount,omitempty"`
	WordCount        int `json:"wordCount,omitempty"`
	PageCount        int `json:"pageCount,omitempty"`
}
