package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", root)
	r.GET("/generate-and-upload", h.generateAndUpload)
	r.GET("/render", h.renderImage)

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/generate-and-upload", h.generateAndUpload)
		api.GET("/render", h.renderImage)
	}
}
