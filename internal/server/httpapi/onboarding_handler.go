package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/services"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// OnboardingHandler serves the two onboarding steps. The investment profile
// endpoints require the investor row to exist first.
type OnboardingHandler struct {
	Onboarding *services.Onboarding
}

func (h *OnboardingHandler) GetInvestor(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	inv, err := h.Onboarding.GetInvestor(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, investorJSON(inv))
}

type upsertInvestorBody struct {
	FullName string          `json:"full_name"`
	Country  string          `json:"country"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

func (h *OnboardingHandler) UpsertInvestor(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	var body upsertInvestorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	inv, err := h.Onboarding.UpsertInvestor(c.Request.Context(), &models.Investor{
		UserID:   userID,
		FullName: body.FullName,
		Country:  body.Country,
		NetWorth: body.NetWorth,
	})
	if err != nil {
		if errors.Is(err, shared.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "full_name is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, investorJSON(inv))
}

func (h *OnboardingHandler) GetInvestmentProfile(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	p, err := h.Onboarding.GetInvestmentProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investment profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, investmentProfileJSON(p))
}

type upsertInvestmentProfileBody struct {
	RiskTolerance string          `json:"risk_tolerance"`
	HorizonYears  int             `json:"horizon_years"`
	AnnualIncome  decimal.Decimal `json:"annual_income"`
}

func (h *OnboardingHandler) UpsertInvestmentProfile(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	var body upsertInvestmentProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.Onboarding.UpsertInvestmentProfile(c.Request.Context(), userID, &models.InvestmentProfile{
		RiskTolerance: body.RiskTolerance,
		HorizonYears:  body.HorizonYears,
		AnnualIncome:  body.AnnualIncome,
	})
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			// The investor step has not been completed yet.
			c.JSON(http.StatusConflict, gin.H{"error": "complete the investor step first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, investmentProfileJSON(p))
}

func investorJSON(inv *models.Investor) gin.H {
	return gin.H{
		"id":        inv.ID,
		"user_id":   inv.UserID,
		"full_name": inv.FullName,
		"country":   inv.Country,
		"net_worth": inv.NetWorth.String(),
	}
}

func investmentProfileJSON(p *models.InvestmentProfile) gin.H {
	return gin.H{
		"id":             p.ID,
		"investor_id":    p.InvestorID,
		"risk_tolerance": p.RiskTolerance,
		"horizon_years":  p.HorizonYears,
		"annual_income":  p.AnnualIncome.String(),
	}
}
