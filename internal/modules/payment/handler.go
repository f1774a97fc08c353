package payment

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"styledeco/internal/domain"
	"styledeco/internal/middleware"
	"styledeco/internal/pkg/response"
)

const maxWebhookBytes = 64 << 10

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	authed := r.Group("", middleware.RequirePrincipal())
	{
		authed.POST("/create-checkout-session", h.CreateCheckoutSession)
		authed.GET("/stripe-session/:id", h.GetSession)
		authed.POST("/payments", h.Record)
		authed.GET("/payments", h.List)
		authed.PATCH("/payments/:id/cancel", h.Cancel)
	}

	r.GET("/decorator/payments", middleware.RequireRole(domain.RoleDecorator), h.List)
}

// RegisterWebhookRoutes mounts the processor callback. It carries no
// credential and is authenticated by its signature.
func (h *Handler) RegisterWebhookRoutes(r gin.IRouter) {
	r.POST("/webhooks/stripe", h.Webhook)
}

func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.InitiateCheckout(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.service.SessionStatus(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

func (h *Handler) Record(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "sessionId is required")
		return
	}

	payment, err := h.service.Record(c.Request.Context(), middleware.CurrentPrincipal(c), req.SessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payment)
}

func (h *Handler) List(c *gin.Context) {
	payments, err := h.service.ListForPrincipal(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payments)
}

func (h *Handler) Cancel(c *gin.Context) {
	payment, err := h.service.Cancel(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payment)
}

func (h *Handler) Webhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing Stripe-Signature header")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read webhook payload")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}
