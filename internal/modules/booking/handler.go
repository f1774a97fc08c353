package booking

import (
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
	bookings := r.Group("/bookings", middleware.RequirePrincipal())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMine)
		bookings.GET("/:id", h.Get)
	}

	admin := r.Group("/admin/bookings", middleware.AdminOnly())
	{
		admin.GET("", h.ListAll)
		admin.PATCH("/:id", h.AdminUpdate)
		admin.DELETE("/:id", h.AdminDelete)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListMine(c *gin.Context) {
	bookings, err := h.service.ListForPrincipal(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListAll(c *gin.Context) {
	bookings, err := h.service.ListAll(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) AdminUpdate(c *gin.Context) {
	var req AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.AdminUpdate(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) AdminDelete(c *gin.Context) {
	if err := h.service.AdminDelete(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
