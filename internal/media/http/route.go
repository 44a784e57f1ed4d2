package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers media routes. maxBytes caps the multipart body.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, maxBytes int64) {
	group := g.Group("/media")

	group.POST("", limitBody(maxBytes), h.Upload)
	group.GET("/:id", h.ServeFile)
	group.GET("/:id/thumbnail", h.ServeThumbnail)
	group.DELETE("/:id", h.Delete)
}

// limitBody leaves 1 MiB of headroom for multipart framing.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
		}
		c.Next()
	}
}
