package main

import (
	"booking-agent/internal/config"
	"booking-agent/internal/telephony"
	"booking-agent/internal/voice"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, cfg config.Config, h voice.Handlers) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// caller-facing API
	api := r.Group("/api")
	{
		api.POST("/call", h.StartCall)
		api.GET("/call/:id", h.GetCall)
	}

	// Carrier webhooks. Signature validation needs the exact public URL
	// Twilio signed against, so it is only enforced when a base URL is
	// configured; production config requires one.
	twilio := r.Group("/twilio")
	if cfg.IsProduction() && cfg.App.PublicBaseURL != "" {
		twilio.Use(telephony.RequireValidSignature(cfg.Twilio.AuthToken, cfg.App.PublicBaseURL))
	}
	{
		twilio.POST("/voice", h.VoiceAnswer)
		twilio.POST("/gather", h.VoiceGather)
		twilio.POST("/status", h.VoiceStatus)
	}
}
