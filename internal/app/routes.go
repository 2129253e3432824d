package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const httpShutdownTimeout = 5 * time.Second

// RegisterRoutes exposes the read-only admin surface. Nothing here mutates
// state; all writes flow through the relay pipeline.
func (a *App) RegisterRoutes() {
	api := a.Router.Group("/api/v1")
	{
		api.GET("/health", a.health)
		api.GET("/status", a.status)
		api.GET("/offers", a.listOffers)
	}
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *App) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"relays":             a.pool.Status(),
		"connected":          a.pool.ConnectedCount(),
		"processed_requests": a.requestSet.Len(),
		"processed_receipts": a.receiptSet.Len(),
	})
}

func (a *App) listOffers(c *gin.Context) {
	offers, err := a.offers.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, offers)
}
