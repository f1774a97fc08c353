package admin

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"styledeco/internal/middleware"
	"styledeco/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	admin := r.Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/decorators", h.ListDecorators)
		admin.PATCH("/users/:email/make-decorator", h.MakeDecorator)
		admin.PATCH("/users/:email/toggle-active", h.ToggleActive)
	}

	r.GET("/users/decorator/:email", middleware.RequirePrincipal(), h.IsDecorator)
}

func (h *Handler) ListDecorators(c *gin.Context) {
	decorators, err := h.service.ListDecorators(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, decorators)
}

func (h *Handler) MakeDecorator(c *gin.Context) {
	var req MakeDecoratorRequest
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.MakeDecorator(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("email"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) ToggleActive(c *gin.Context) {
	u, err := h.service.ToggleActive(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) IsDecorator(c *gin.Context) {
	status, err := h.service.IsDecorator(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}
