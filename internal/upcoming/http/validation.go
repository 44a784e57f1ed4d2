package http

import (
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/upcoming-content-backend/internal/upcoming"
)

var registerOnce sync.Once

// RegisterValidators adds the upcoming-specific binding tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
			return upcoming.ContentType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("rating_type", func(fl validator.FieldLevel) bool {
			return upcoming.RatingType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("media_url", func(fl validator.FieldLevel) bool {
			return isMediaURL(fl.Field().String())
		})
	})
}

// isMediaURL accepts absolute http(s) URLs and server-relative paths such as
// the ones returned by media uploads.
func isMediaURL(s string) bool {
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
