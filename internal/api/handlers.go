package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moodlist/internal/config"
	"moodlist/internal/notify"
)

// Conversation is the dialogue entry point the webhook delegates to.
type Conversation interface {
	HandleMessage(ctx context.Context, userID, text string) (string, error)
}

// Deps carries the wired services the handlers need.
type Deps struct {
	Conversation Conversation
	Notifier     notify.Notifier // optional, nil disables out-of-band pushes
}

// webhookRequest is the Rocket.Chat outgoing-webhook payload. UserID falls
// back to UserName when the platform only sends a handle.
type webhookRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Text     string `json:"text"`
	Bot      bool   `json:"bot"`
}

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"text":   "Music therapy playlist generator is up and running!",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"llm": gin.H{
				"model":       cfg.LLM.Model,
				"temperature": cfg.LLM.Temperature,
			},
			"review": gin.H{
				"enabled": cfg.Review.Enabled,
			},
		})
	}
}

// POST /message
func MessageHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()

		var req webhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		// Messages authored by bots (including our own replies echoed back
		// through the webhook) are acknowledged and dropped, otherwise the
		// service would talk to itself.
		if req.Bot {
			c.JSON(http.StatusOK, gin.H{})
			return
		}

		userID := req.UserID
		if userID == "" {
			userID = req.UserName
		}
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		text := strings.TrimSpace(req.Text)
		log.Printf("[API] req=%s user=%s message received", reqID, userID)

		reply, err := deps.Conversation.HandleMessage(c.Request.Context(), userID, text)
		if err != nil {
			log.Printf("[API] req=%s user=%s turn failed: %v", reqID, userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Something went wrong while building your playlist. Please try again."})
			return
		}

		if deps.Notifier != nil && req.UserName != "" {
			if err := deps.Notifier.Send(c.Request.Context(), req.UserName, reply); err != nil {
				// The webhook response still carries the reply, so a failed
				// push is logged and ignored.
				log.Printf("[API] req=%s user=%s notify failed: %v", reqID, userID, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"text": reply})
	}
}
