package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/church-network-api/internal/dto"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/middleware"
	"github.com/yukikurage/church-network-api/internal/services"
)

type FinanceHandler struct {
	financeService *services.FinanceService
}

func NewFinanceHandler(financeService *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// GetBalance returns the balance of one organization
func (h *FinanceHandler) GetBalance(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	orgID, _ := middleware.GetRecordID(c)

	balance, err := h.financeService.OrgBalance(c.Request.Context(), identity, orgID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceDTO(*balance))
}

// GetTotals returns balances for the caller's organization and its branches
func (h *FinanceHandler) GetTotals(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	balances, err := h.financeService.SubtreeBalances(c.Request.Context(), identity, c.Query("search_term"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": dto.ToBalanceDTOs(balances)})
}

// GetStats returns branch and member counts
func (h *FinanceHandler) GetStats(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.financeService.Stats(c.Request.Context(), identity)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsDTO(*stats))
}
