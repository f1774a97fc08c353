package assignment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"styledeco/internal/domain"
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
		admin.GET("/assignable", h.ListAssignable)
		admin.POST("/assign-decorator", h.Assign)
		admin.DELETE("/assign-decorator/:id", h.Unassign)
	}

	decorator := r.Group("/decorator", middleware.RequireRole(domain.RoleDecorator, domain.RoleAdmin))
	{
		decorator.GET("/projects", h.ListProjects)
		decorator.PATCH("/update-status/:id", h.UpdateStatus)
		decorator.DELETE("/projects/:id", h.Unassign)
	}
}

func (h *Handler) ListAssignable(c *gin.Context) {
	bookings, err := h.service.ListAssignable(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "bookingId and decoratorEmail are required")
		return
	}

	b, err := h.service.Assign(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Unassign(c *gin.Context) {
	b, err := h.service.Unassign(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListProjects(c *gin.Context) {
	today := c.Query("date") == "today"

	projects, err := h.service.ListProjects(c.Request.Context(), middleware.CurrentPrincipal(c), today)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, projects)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "projectStatus is required")
		return
	}

	b, err := h.service.UpdateProjectStatus(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req.ProjectStatus)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}
