package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/chatstack/uploads-service/uploads"
)

func RegisterUploadsRouter(h *uploads.UploadsHandler, r gin.IRouter) {
	g := r.Group("/upload")

	g.POST("/init", h.Init)
	g.POST("/chunk", h.Chunk)
	g.POST("/complete", h.Complete)
	g.POST("/abort", h.Abort)
}
