package http

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/upcoming-content-backend/internal/media"
	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/request"
	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/response"
)

// FormFieldName is the multipart field carrying the uploaded image.
const FormFieldName = "file"

type Handler struct {
	service media.Service
}

func NewHandler(service media.Service) *Handler {
	return &Handler{service: service}
}

// Upload stores a poster image and returns the URLs to reference it by.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(FormFieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": FormFieldName + " is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	m, err := h.service.Upload(c.Request.Context(), media.UploadInput{
		Filename: fileHeader.Filename,
		Content:  src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Message: "file uploaded successfully",
		Media:   NewResponse(m),
	})
}

// ServeFile streams the original image.
func (h *Handler) ServeFile(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, m, err := h.service.Download(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", m.ContentType)
	c.Header("Content-Disposition", inlineDisposition(m.Filename))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, stream)
}

// ServeThumbnail streams the JPEG thumbnail.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, m, err := h.service.DownloadThumbnail(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", inlineDisposition(m.ID+"_thumb.jpg"))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, stream)
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// inlineDisposition quotes filename for the header. Names that cannot be
// encoded are dropped.
func inlineDisposition(filename string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "inline"
}
