package upcoming

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("upcoming content not found")
	ErrCapacityExceeded   = errors.New("upcoming content list is full, delete an item first")
	ErrInvalidOrder       = errors.New("content order must be a non-negative integer")
	ErrOrderConflict      = errors.New("content order is already taken")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidRatingType  = errors.New("invalid rating type")
)

// CollectionKey identifies the cached view of the whole upcoming list.
const CollectionKey = "upcoming_contents"

// ContentType tags the kind of release being announced.
type ContentType string

const (
	ContentTypeMovie       ContentType = "movie"
	ContentTypeSeries      ContentType = "series"
	ContentTypeAnime       ContentType = "anime"
	ContentTypeDocumentary ContentType = "documentary"
	ContentTypeSpecial     ContentType = "special"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMovie, ContentTypeSeries, ContentTypeAnime, ContentTypeDocumentary, ContentTypeSpecial:
		return true
	}
	return false
}

// RatingType is the audience rating shown next to an upcoming release.
type RatingType string

const (
	RatingG    RatingType = "G"
	RatingPG   RatingType = "PG"
	RatingPG13 RatingType = "PG-13"
	RatingR    RatingType = "R"
	RatingNC17 RatingType = "NC-17"
	RatingTVY  RatingType = "TV-Y"
	RatingTVG  RatingType = "TV-G"
	RatingTVPG RatingType = "TV-PG"
	RatingTV14 RatingType = "TV-14"
	RatingTVMA RatingType = "TV-MA"
)

// Valid reports whether r is a known rating.
func (r RatingType) Valid() bool {
	switch r {
	case RatingG, RatingPG, RatingPG13, RatingR, RatingNC17,
		RatingTVY, RatingTVG, RatingTVPG, RatingTV14, RatingTVMA:
		return true
	}
	return false
}

// Content is a single entry of the manually ordered "coming soon" list.
type Content struct {
	ID           string
	Title        string
	ContentType  ContentType
	Genres       []string
	ReleaseDate  time.Time
	Order        int
	RatingType   *RatingType
	Directors    []string
	Writers      []string
	Cast         []string
	Description  string
	ThumbnailURL string
	TrailerURL   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
