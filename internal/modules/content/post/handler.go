package post

import (
	"github.com/gin-gonic/gin"
	"github.com/guilamu/distillpress/internal/pkg/pagination"
	"github.com/guilamu/distillpress/internal/pkg/response"
)

// Handler handles post HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts", authMW)
	posts.GET("", h.list)
	posts.GET("/:identifier", h.getByIdentifier)
	posts.POST("", h.create)
	posts.PUT("/:id", h.update)
	posts.PATCH("/:id", h.update)
	posts.DELETE("/:id", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, posts, pag)
}

// getByIdentifier GET /posts/:identifier
func (h *Handler) getByIdentifier(c *gin.Context) {
	post, err := h.svc.GetByIdentifier(c.Param("identifier"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, post)
}

// create POST /posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(&dto)
	if err != nil {
		switch err.Error() {
		case "slug already exists":
			response.Conflict(c, err.Error())
		case "category not found":
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, post)
}

// update PUT /posts/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		switch err.Error() {
		case "slug already exists":
			response.Conflict(c, err.Error())
		case "category not found":
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, post)
}

// delete DELETE /posts/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
