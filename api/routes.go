package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/freedesk/mailroom/api/handlers"
	"github.com/freedesk/mailroom/api/middleware"
	"github.com/freedesk/mailroom/internal/tracing"
	"github.com/freedesk/mailroom/services/fetch"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, fetcher *fetch.RecordingFetcher, apikey string) {
	if fetcher == nil {
		panic("Fetcher cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-MAILROOM-API-KEY",
		ValidAPIKey: apikey,
	})

	guarded := r.Group("")
	guarded.Use(apiKeyMiddleware)
	{
		guarded.GET("/status", handlers.Status(fetcher))
	}
}
