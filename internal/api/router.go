package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moodlist/internal/config"
)

// SetupRouter wires the HTTP surface: the chat webhook plus health and
// config introspection. Subpath allows mounting behind a reverse proxy
// at a custom prefix.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/moodlist" or empty, always starts with '/'

	if subpath != "" && subpath != "/" {
		// Redirect /subpath/ to /subpath (no duplicate panic)
		r.GET(subpath+"/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, subpath)
		})
	}

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))
		group.POST("/message", MessageHandler(deps))
	}

	return r
}
