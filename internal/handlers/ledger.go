package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"oracle-bets-backend/internal/ledger"
	"oracle-bets-backend/internal/models"
)

type LedgerHandler struct {
	ledger *ledger.Service
}

func NewLedgerHandler(ledgerService *ledger.Service) *LedgerHandler {
	return &LedgerHandler{ledger: ledgerService}
}

func (h *LedgerHandler) StartGame(c *gin.Context) {
	caller := c.GetString("account_id")

	var req models.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	game, err := h.ledger.StartGame(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    game,
	})
}

func (h *LedgerHandler) ResolveGame(c *gin.Context) {
	caller := c.GetString("account_id")

	var req models.ResolveGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	game, err := h.ledger.ResolveGame(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    game,
	})
}

func (h *LedgerHandler) Withdraw(c *gin.Context) {
	caller := c.GetString("account_id")

	receipt, err := h.ledger.Withdraw(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": receipt,
	})
}

// respondError maps the ledger error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrInvalidDeposit),
		errors.Is(err, models.ErrNothingToWithdraw):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateGame),
		errors.Is(err, models.ErrAlreadyResolved):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
