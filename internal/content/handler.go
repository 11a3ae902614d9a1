package content

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"practice-backend/internal/shared/server/respond"
)

const maxContentBody = 1 << 20

// Handler exposes content over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the public read routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/content", h.all)
	rg.GET("/content/:lang", h.language)
}

// RegisterAdminRoutes attaches the override editor route.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/content", h.save)
}

func (h *Handler) all(c *gin.Context) {
	respond.OK(c, h.Svc.Resolved(c.Request.Context()))
}

func (h *Handler) language(c *gin.Context) {
	doc, err := h.Svc.Language(c.Request.Context(), c.Param("lang"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, err.Error())
		return
	}
	respond.OK(c, doc)
}

func (h *Handler) save(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContentBody)

	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil || doc == nil {
		respond.Error(c, http.StatusBadRequest, ErrInvalidDocument.Error())
		return
	}

	if err := h.Svc.SaveOverrides(c.Request.Context(), doc); err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, ErrInvalidDocument):
			respond.Error(c, http.StatusBadRequest, err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to save content")
		}
		return
	}
	respond.Message(c, http.StatusOK, "Success")
}
