package ai

import (
	"github.com/gin-gonic/gin"
	"github.com/guilamu/distillpress/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the AI surface. Generation and categorization
// need edit rights; catalog listing and the usage log are admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, editorMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/ai")
	g.POST("/summary", editorMW, h.generateSummary)
	g.POST("/categorize", editorMW, h.autoCategorize)
	g.GET("/models", adminMW, h.listModels)
	g.GET("/usage-log", adminMW, h.usageLog)
}

type generateSummaryDTO struct {
	Content          string `json:"content"`
	PostID           string `json:"post_id"`
	NumPoints        *int   `json:"num_points"`
	ReductionPercent *int   `json:"reduction_percent"`
}

// POST /ai/summary  [editor]
func (h *Handler) generateSummary(c *gin.Context) {
	var dto generateSummaryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.GenerateSummary(c.Request.Context(), GenerateRequest{
		Content:          dto.Content,
		PostID:           dto.PostID,
		NumPoints:        dto.NumPoints,
		ReductionPercent: dto.ReductionPercent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

type autoCategorizeDTO struct {
	Content       string `json:"content"`
	PostID        string `json:"post_id"`
	MaxCategories *int   `json:"max_categories"`
}

// POST /ai/categorize  [editor]
func (h *Handler) autoCategorize(c *gin.Context) {
	var dto autoCategorizeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.AutoCategorize(c.Request.Context(), CategorizeRequest{
		Content:       dto.Content,
		PostID:        dto.PostID,
		MaxCategories: dto.MaxCategories,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// GET /ai/models?image_only=true  [admin]
func (h *Handler) listModels(c *gin.Context) {
	imageOnly := c.Query("image_only") == "true"
	catalog, err := h.svc.Models(c.Request.Context(), imageOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, catalog)
}

// GET /ai/usage-log  [admin]
func (h *Handler) usageLog(c *gin.Context) {
	entries, err := h.svc.UsageEntries()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, entries)
}

// respondError maps the error taxonomy onto HTTP: caller mistakes are
// 4xx, provider failures are 502, everything else is 500.
func respondError(c *gin.Context, err error) {
	switch KindOf(err) {
	case KindEmptyContent, KindMissingAPIKey, KindFeaturesDisabled:
		response.BadRequest(c, err.Error())
	case KindNoCategoriesAvailable, KindNoCategoriesFound:
		response.UnprocessableEntity(c, err.Error())
	case KindTransport, KindAPI, KindInvalidResponse, KindJSON, KindCategoryParse:
		response.BadGateway(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
