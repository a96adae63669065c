// Package api provides the HTTP surface of the intake bot.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tahs-labs/historiographer/store"
)

// TurnHandler executes one conversation turn and returns the reply text.
type TurnHandler interface {
	HandleMessage(ctx context.Context, userID, text string) string
}

// Replier delivers a reply for a webhook reply token.
type Replier interface {
	Reply(replyToken, text string) error
}

// Handler handles HTTP requests.
type Handler struct {
	turns         TurnHandler
	replier       Replier
	store         *store.Store
	channelSecret string
}

// NewHandler creates a new handler.
func NewHandler(turns TurnHandler, replier Replier, st *store.Store, channelSecret string) *Handler {
	return &Handler{
		turns:         turns,
		replier:       replier,
		store:         st,
		channelSecret: channelSecret,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhook", h.Webhook)
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
}

// Root returns the online banner.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "TAHS Historiographer Bot is online and ready to preserve Taiwanese American stories.",
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"conversations": h.store.Count(),
	})
}
