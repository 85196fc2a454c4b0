package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	connectdomain "github.com/clubworks/sponsorpay/internal/connect/domain"
)

type createAccountRequest struct {
	TenantID string `json:"tenant_id"`
}

func (s *Server) CreateConnectAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	acct, err := s.connectSvc.CreateAccount(c.Request.Context(), strings.TrimSpace(req.TenantID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": acct})
}

func (s *Server) CreateOnboardingLink(c *gin.Context) {
	accountID := strings.TrimSpace(c.Param("id"))

	link, err := s.connectSvc.OnboardingLink(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": link})
}

type createPaymentRequest struct {
	Amount             float64 `json:"amount"`
	TenantID           string  `json:"tenant_id"`
	SponsorEmail       string  `json:"sponsor_email"`
	PlatformFeePercent float64 `json:"platform_fee_percent"`
}

func (s *Server) CreateSponsorshipPayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.connectSvc.CreateSponsorshipPayment(c.Request.Context(), connectdomain.CreatePaymentRequest{
		Amount:             req.Amount,
		SponsorshipID:      strings.TrimSpace(c.Param("id")),
		TenantID:           strings.TrimSpace(req.TenantID),
		SponsorEmail:       strings.TrimSpace(req.SponsorEmail),
		PlatformFeePercent: req.PlatformFeePercent,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
