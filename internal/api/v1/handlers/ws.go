package handlers

import (
	"devtasker/internal/middleware"
	"devtasker/internal/models"

	"github.com/gofiber/websocket/v2"
)

// LiveFeed streams task, comment and tag events to a signed-in user. It returns only
// after the hub is done with conn, since the conn is pooled once the handler exits.
func (h *Handler) LiveFeed(conn *websocket.Conn) {
	user, ok := conn.Locals(middleware.UserKey).(*models.User)
	if !ok || user == nil {
		_ = conn.Close()
		return
	}
	h.hub.Serve(user.ID, conn)
}
