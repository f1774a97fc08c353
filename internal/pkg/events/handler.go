package events

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/pkg/response"
)

type Resolver interface {
	Resolve(ctx context.Context, cred domain.Credential) (domain.Principal, error)
}

type Handler struct {
	hub      *Hub
	resolver Resolver
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler accepts any origin when allowedOrigins is empty.
func NewHandler(hub *Hub, resolver Resolver, allowedOrigins []string, log *zap.Logger) *Handler {
	return &Handler{
		hub:      hub,
		resolver: resolver,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Subscribe upgrades GET /ws/events. Browsers cannot set headers on a
// WebSocket handshake, so credentials come from ?token= or ?adminToken=.
func (h *Handler) Subscribe(c *gin.Context) {
	cred := domain.Credential{
		BearerToken: c.Query("token"),
		AdminToken:  c.Query("adminToken"),
	}
	if cred.Empty() {
		response.FromError(c, domain.ErrUnauthenticated)
		return
	}

	p, err := h.resolver.Resolve(c.Request.Context(), cred)
	if err != nil {
		response.FromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.log.Info("event subscriber connected", zap.String("principal", p.ID), zap.String("role", string(p.Role)))
	h.hub.Serve(conn, p)
}
