package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freedesk/mailroom/services/fetch"
)

// HealthCheck provides a simple health check endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Status returns the outcome of the most recent ingestion run.
func Status(fetcher *fetch.RecordingFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		lastRun := fetcher.LastRun()
		if lastRun == nil {
			c.JSON(http.StatusOK, gin.H{
				"status": "no runs yet",
			})
			return
		}
		c.JSON(http.StatusOK, lastRun)
	}
}
