package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/request"
	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/response"
	"github.com/nekogravitycat/upcoming-content-backend/internal/upcoming"
)

type Handler struct {
	service upcoming.Service
}

func NewHandler(service upcoming.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list upcoming contents"})
		return
	}

	items := make([]ContentResponse, len(list))
	for i, item := range list {
		items[i] = NewResponse(item)
	}

	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		writeError(c, err, "failed to get upcoming content")
		return
	}

	c.JSON(http.StatusOK, NewResponse(item))
}

func (h *Handler) Create(c *gin.Context) {
	var body ContentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	in, err := body.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid release_date", "details": err.Error()})
		return
	}

	item, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "failed to create upcoming content")
		return
	}

	c.JSON(http.StatusCreated, NewResponse(item))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body ContentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	in, err := body.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid release_date", "details": err.Error()})
		return
	}

	item, err := h.service.Update(c.Request.Context(), uri.ID, in)
	if err != nil {
		writeError(c, err, "failed to update upcoming content")
		return
	}

	c.JSON(http.StatusOK, NewResponse(item))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		writeError(c, err, "failed to delete upcoming content")
		return
	}

	c.Status(http.StatusNoContent)
}

// writeError maps service errors to status codes. Store failures are hidden
// behind fallback.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, upcoming.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, upcoming.ErrCapacityExceeded),
		errors.Is(err, upcoming.ErrOrderConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, upcoming.ErrTitleRequired),
		errors.Is(err, upcoming.ErrInvalidOrder),
		errors.Is(err, upcoming.ErrInvalidContentType),
		errors.Is(err, upcoming.ErrInvalidRatingType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
