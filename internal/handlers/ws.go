package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/utils"
)

// PropertyFeed streams listing change events over a websocket.
func (h *Handler) PropertyFeed(ctx *gin.Context) {
	if h.hub == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, "Listing feed is disabled")
		return
	}

	h.hub.Serve(ctx.Writer, ctx.Request)
}
