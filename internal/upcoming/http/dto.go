package http

import (
	"encoding/json"
	"time"

	"github.com/nekogravitycat/upcoming-content-backend/internal/upcoming"
)

const dateLayout = "2006-01-02"

type ContentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ContentType  string    `json:"content_type"`
	Genres       []string  `json:"genres"`
	ReleaseDate  string    `json:"release_date"`
	ContentOrder int       `json:"content_order"`
	RatingType   *string   `json:"rating_type"`
	Directors    []string  `json:"directors"`
	Writers      []string  `json:"writers"`
	Cast         []string  `json:"cast"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	TrailerURL   string    `json:"trailer_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewResponse(c *upcoming.Content) ContentResponse {
	var rating *string
	if c.RatingType != nil {
		r := string(*c.RatingType)
		rating = &r
	}

	return ContentResponse{
		ID:           c.ID,
		Title:        c.Title,
		ContentType:  string(c.ContentType),
		Genres:       nonNil(c.Genres),
		ReleaseDate:  c.ReleaseDate.Format(dateLayout),
		ContentOrder: c.Order,
		RatingType:   rating,
		Directors:    nonNil(c.Directors),
		Writers:      nonNil(c.Writers),
		Cast:         nonNil(c.Cast),
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		TrailerURL:   c.TrailerURL,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ContentRequest is the full field set for both POST and PUT.
// content_order is accepted either as a JSON number or a numeric string.
type ContentRequest struct {
	Title        string      `json:"title" binding:"required,max=200"`
	ContentType  string      `json:"content_type" binding:"required,content_type"`
	Genres       []string    `json:"genres" binding:"omitempty,max=20,dive,max=50"`
	ReleaseDate  string      `json:"release_date" binding:"required,datetime=2006-01-02"`
	ContentOrder json.Number `json:"content_order" binding:"required"`
	RatingType   *string     `json:"rating_type" binding:"omitempty,rating_type"`
	Directors    []string    `json:"directors" binding:"omitempty,dive,max=100"`
	Writers      []string    `json:"writers" binding:"omitempty,dive,max=100"`
	Cast         []string    `json:"cast" binding:"omitempty,dive,max=100"`
	Description  string      `json:"description" binding:"max=5000"`
	ThumbnailURL string      `json:"thumbnail_url" binding:"omitempty,media_url"`
	TrailerURL   string      `json:"trailer_url" binding:"omitempty,media_url"`
}

// ToInput converts the request body into the service input.
func (r *ContentRequest) ToInput() (upcoming.Input, error) {
	release, err := time.Parse(dateLayout, r.ReleaseDate)
	if err != nil {
		return upcoming.Input{}, err
	}

	var rating *upcoming.RatingType
	if r.RatingType != nil {
		rt := upcoming.RatingType(*r.RatingType)
		rating = &rt
	}

	return upcoming.Input{
		Title:        r.Title,
		ContentType:  upcoming.ContentType(r.ContentType),
		Genres:       r.Genres,
		ReleaseDate:  release,
		Order:        r.ContentOrder.String(),
		RatingType:   rating,
		Directors:    r.Directors,
		Writers:      r.Writers,
		Cast:         r.Cast,
		Description:  r.Description,
		ThumbnailURL: r.ThumbnailURL,
		TrailerURL:   r.TrailerURL,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return make([]string, 0)
	}
	return s
}
