package media

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "media not found")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, "thumbnail not available for this media")
	ErrFileTooLarge    = apperror.New(http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType = apperror.New(http.StatusUnsupportedMediaType, "only JPEG, PNG and GIF images are accepted")
	ErrEmptyFile       = apperror.New(http.StatusBadRequest, "file is empty")
)

// Media is an uploaded poster image and its generated thumbnail.
type Media struct {
	ID            string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public path serving the original image.
func URL(id string) string {
	return "/v1/media/" + id
}

// ThumbnailURL returns the public path serving the thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/media/" + id + "/thumbnail"
}
