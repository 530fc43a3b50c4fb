package adminController

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/events"
)

// LiveEvents streams published events to an admin dashboard over websocket.
// GET /admin/live
func LiveEvents(hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeHTTP(c.Writer, c.Request)
	}
}
