package main

import (
	"database/sql"
	"net/http"
	"time"

	"unmute/internal/artifact"
	"unmute/internal/auth"
	"unmute/internal/httpapi"
	"unmute/internal/realtime"
	"unmute/internal/session"
	"unmute/pkg/utils"

	"github.com/gin-gonic/gin"
)

type registerDeps struct {
	auth      *auth.Manager
	handlers  httpapi.Handlers
	calls     *session.Service
	artifacts *artifact.Store
	hub       *realtime.Hub
	db        *sql.DB
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d registerDeps) {
	h := d.handlers

	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), d.db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Ephemeral audio artifacts, fetched by both the browser and Twilio.
	r.GET("/audio/:id", d.artifacts.Handler())

	// Browser realtime feed.
	r.GET("/ws", d.hub.Handler(d.auth))

	// Provider webhooks (public).
	// NOTE: These endpoints should be protected by Twilio signature validation in production.
	wh := r.Group("/webhooks/twilio")
	{
		wh.POST("/answer", h.TwilioAnswer)
		wh.POST("/status", h.TwilioStatus)
		wh.POST("/gather", h.TwilioGather)
		wh.POST("/recording", h.TwilioRecording)
		wh.GET("/media", d.calls.StreamHandler())
	}

	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(d.auth))
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"user_id": uid})
		})

		calls := v1.Group("/calls")
		{
			calls.POST("", h.StartCall)
			calls.GET("/:sid", h.GetCall)
			calls.POST("/:sid/speak", h.Speak)
			calls.POST("/:sid/mute", h.SetMuted)
			calls.POST("/:sid/digits", h.SendDigits)
			calls.DELETE("/:sid", h.EndCall)
		}

		hist := v1.Group("/history")
		{
			hist.GET("", h.ListHistory)
			hist.GET("/:sid", h.GetHistory)
			hist.GET("/:sid/recording", h.GetHistoryRecording)
			hist.DELETE("/:sid", h.DeleteHistory)
		}
	}
}
