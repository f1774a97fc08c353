package analytics

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
	admin := r.Group("/admin/analytics", middleware.AdminOnly())
	{
		admin.GET("/revenue", h.Revenue)
		admin.GET("/bookings-by-user", h.BookingsByUser)
		admin.GET("/bookings-by-service", h.BookingsByService)
		admin.GET("/assignments", h.Assignments)
		admin.GET("/payments", h.Payments)
	}

	r.GET("/decorator/earnings", middleware.RequireRole(domain.RoleDecorator), h.Earnings)
}

func respond[T any](c *gin.Context, v T, err error) {
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) Revenue(c *gin.Context) {
	v, err := h.service.RevenueByService(c.Request.Context(), middleware.CurrentPrincipal(c))
	respond(c, v, err)
}

func (h *Handler) BookingsByUser(c *gin.Context) {
	v, err := h.service.BookingCountByUser(c.Request.Context(), middleware.CurrentPrincipal(c))
	respond(c, v, err)
}

func (h *Handler) BookingsByService(c *gin.Context) {
	v, err := h.service.BookingCountByService(c.Request.Context(), middleware.CurrentPrincipal(c))
	respond(c, v, err)
}

func (h *Handler) Assignments(c *gin.Context) {
	v, err := h.service.AssignmentRatio(c.Request.Context(), middleware.CurrentPrincipal(c))
	respond(c, v, err)
}

func (h *Handler) Payments(c *gin.Context) {
	v, err := h.service.PaymentStatusRatio(c.Request.Context(), middleware.CurrentPrincipal(c))
	respond(c, v, err)
}

func (h *Handler) Earnings(c *gin.Context) {
	v, err := h.service.DecoratorEarnings(c.Request.Context(), middleware.CurrentPrincipal(c))
	respond(c, v, err)
}
