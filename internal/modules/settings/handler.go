package settings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guilamu/distillpress/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	g := rg.Group("/settings", adminMW)
	g.GET("", h.get)
	g.PATCH("", h.patch)
}

// GET /settings  [admin]
func (h *Handler) get(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg.redacted())
}

// PATCH /settings  [admin]
func (h *Handler) patch(c *gin.Context) {
	var dto PatchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cfg, err := h.svc.Patch(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, errUnknownProvider) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg.redacted())
}

// redacted masks API keys down to their last four characters before they
// leave the server.
func (s Settings) redacted() Settings {
	s.POEAPIKey = maskKey(s.POEAPIKey)
	s.GeminiAPIKey = maskKey(s.GeminiAPIKey)
	return s
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return "****" + key[len(key)-4:]
}
