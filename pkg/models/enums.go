package models

// MediaType is the category of a library item.
type MediaType string

const (
	TypeAnime  MediaType = "Anime"
	TypeManga  MediaType = "Manga"
	TypeBook   MediaType = "Book"
	TypeMovie  MediaType = "Movie"
	TypeSeries MediaType = "Series"
)

// MediaTypes lists every valid media type in display order.
var MediaTypes = []MediaType{TypeAnime, TypeManga, TypeBook, TypeMovie, TypeSeries}

func (t MediaType) Valid() bool {
	switch t {
	case TypeAnime, TypeManga, TypeBook, TypeMovie, TypeSeries:
		return true
	}
	return false
}

// Episodic reports whether child records of this type carry
// episode/duration numbers rather than chapter/word numbers.
func (t MediaType) Episodic() bool {
	return t == TypeAnime || t == TypeSeries
}

// Reading is the counterpart of Episodic for chapter-based types.
func (t MediaType) Reading() bool {
	return t == TypeManga || t == TypeBook
}

// ChildPrefix is the default title prefix for a new child record.
func (t MediaType) ChildPrefix() string {
	if t.Reading() {
		return "Volume"
	}
	return "Season"
}

// HasChildList reports whether the seasons/volumes step shows the full
// child-record editor. Movie and Manga get a flat stats-only variant
// instead, but the step itself still exists for them.
func (t MediaType) HasChildList() bool {
	return t == TypeAnime || t == TypeSeries || t == TypeBook
}

// Status is the consumption state of a library item.
type Status string

const (
	StatusPlanning     Status = "Planning"
	StatusInProgress   Status = "Reading/Watching"
	StatusDropped      Status = "Dropped"
	StatusOnHold       Status = "On Hold"
	StatusAnticipating Status = "Anticipating"
	StatusCompleted    Status = "Completed"
)

var Statuses = []Status{
	StatusPlanning, StatusInProgress, StatusDropped,
	StatusOnHold, StatusAnticipating, StatusCompleted,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusDropped,
		StatusOnHold, StatusAnticipating, StatusCompleted:
		return true
	}
	return false
}

// RatingLabels maps the 1-4 rating scale to its display labels.
// 0 means unrated and has no label.
var RatingLabels = map[int]string{
	1: "BAD",
	2: "OK",
	3: "GOOD",
	4: "MASTERPIECE",
}

// MediaColors are the accent colors used by the frontend and exports,
// kept in sync with the CSS variables of the SPA.
var MediaColors = map[MediaType]string{
	TypeAnime:  "#8b5cf6",
	TypeManga:  "#ec4899",
	TypeBook:   "#3b82f6",
	TypeMovie:  "#ef4444",
	TypeSeries: "#f59e0b",
}
