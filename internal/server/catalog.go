package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SyncProducts lists the provider's active products and returns the mapped
// catalog. Read-through only.
func (s *Server) SyncProducts(c *gin.Context) {
	products, err := s.catalogSvc.Sync(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}
