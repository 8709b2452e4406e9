package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"drainwatch/internal/agent"
	"drainwatch/internal/logging"
	"drainwatch/internal/models"
	"drainwatch/internal/router"
	"drainwatch/internal/views"
)

type Handler struct {
	agent  *agent.Agent
	router *router.Router
	hub    *views.Hub
	logger *logging.Logger
}

func NewHandler(ag *agent.Agent, rt *router.Router, hub *views.Hub, logger *logging.Logger) *Handler {
	return &Handler{agent: ag, router: rt, hub: hub, logger: logger}
}

// HandlePush accepts a raw push payload over HTTP. The body is handed to
// the agent as-is; malformed payloads still produce an info alert, so the
// only client errors here are lifecycle ones.
func (h *Handler) HandlePush(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	if err := h.agent.HandlePush(c.Request.Context(), raw); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, agent.ErrNotActive) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "rendered"})
}

// interactionRequest is a user's response to a shown alert, forwarded by
// the view that displayed it.
type interactionRequest struct {
	Tag     string         `json:"tag" binding:"required"`
	Action  string         `json:"action"`
	Payload models.Payload `json:"payload"`
}

// HandleInteraction routes an action tap (or body tap, empty action) back
// to the right consumer view.
func (h *Handler) HandleInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid interaction request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.router.OnInteraction(c.Request.Context(), req.Tag, req.Action, req.Payload); err != nil {
		// The alert is already closed; only the navigation was missed.
		h.logger.Errorf("Interaction routing failed for tag=%s: %v", req.Tag, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "routed"})
}

// HandleDismissal records an alert swiped away without an action.
func (h *Handler) HandleDismissal(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid dismissal request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.router.OnDismiss(req.Tag, req.Payload)
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// HandleViewSocket attaches a dashboard tab as a consumer view. Once the
// upgrade happened the connection is hijacked, so failures are only logged.
func (h *Handler) HandleViewSocket(c *gin.Context) {
	if err := h.hub.HandleConn(c.Writer, c.Request); err != nil {
		h.logger.Errorf("View attach failed: %v", err)
	}
}

// HandleHealth reports the agent's lifecycle state.
func (h *Handler) HandleHealth(c *gin.Context) {
	state := h.agent.State()
	status := http.StatusOK
	if state != agent.StateActive {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "agent": state.String()})
}
