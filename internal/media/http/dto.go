package http

import (
	"time"

	"github.com/nekogravitycat/upcoming-content-backend/internal/media"
)

type MediaResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

type UploadResponse struct {
	Message string        `json:"message"`
	Media   MediaResponse `json:"media"`
}

func NewResponse(m *media.Media) MediaResponse {
	var thumbURL *string
	if m.ThumbnailPath != nil {
		t := media.ThumbnailURL(m.ID)
		thumbURL = &t
	}

	return MediaResponse{
		ID:           m.ID,
		Filename:     m.Filename,
		ContentType:  m.ContentType,
		Size:         m.Size,
		URL:          media.URL(m.ID),
		ThumbnailURL: thumbURL,
		CreatedAt:    m.CreatedAt,
	}
}
