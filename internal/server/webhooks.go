package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HandleStripeConnectWebhook receives signed provider deliveries. Any failure
// answers 400 so Stripe redelivers on its own retry schedule; 200 is only
// sent after the event was fully reconciled.
func (s *Server) HandleStripeConnectWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	sig := strings.TrimSpace(c.GetHeader("Stripe-Signature"))
	if sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe-signature header"})
		return
	}

	result := s.webhookSvc.Ingest(c.Request.Context(), payload, sig)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
