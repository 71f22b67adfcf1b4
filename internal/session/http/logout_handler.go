// Package http provides the backchannel logout endpoint that tears down
// the pad side of a dying provider session.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thorsten-l/l9g-accountinfo/internal/push"
	"github.com/thorsten-l/l9g-accountinfo/internal/session"
)

// LogoutHandler handles backchannel logout notifications from the identity
// provider.
type LogoutHandler struct {
	sessions *session.Store
	hub      *push.Hub
	logger   *slog.Logger
}

// NewLogoutHandler creates a new backchannel logout handler.
func NewLogoutHandler(sessions *session.Store, hub *push.Hub, logger *slog.Logger) *LogoutHandler {
	return &LogoutHandler{
		sessions: sessions,
		hub:      hub,
		logger:   logger,
	}
}

// RegisterRoutes mounts the backchannel logout route.
func (h *LogoutHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/backchannel-logout", h.LogoutHandler)
}

// LogoutHandler invalidates the session binding for the given provider
// session id and hides the capture dialog on the bound pad.
//
// Always answers 200: the provider retries on errors, and an unknown sid
// (already expired, never bound) is not an error.
// POST /v1/backchannel-logout
func (h *LogoutHandler) LogoutHandler(c *gin.Context) {
	sid := c.PostForm("sid")
	if sid == "" {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
		return
	}

	padUUID, ok := h.sessions.RemoveSession(sid)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
		return
	}

	h.logger.Info("backchannel logout", slog.String("pad_uuid", padUUID))

	if err := h.hub.FireEventToPad(padUUID, push.NewEvent(push.EventHide, "")); err != nil {
		// The pad may simply be offline; the binding is gone either way.
		h.logger.Debug("hide push after logout failed",
			slog.String("pad_uuid", padUUID),
			slog.Any("error", err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
