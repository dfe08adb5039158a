package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Read-only views. No authorization: anything here is public chain state.

func (h *LedgerHandler) GetUserStats(c *gin.Context) {
	accountID := c.Param("account_id")

	stats, err := h.ledger.UserStats(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	if stats == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "stats": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *LedgerHandler) GetUserGameStats(c *gin.Context) {
	accountID := c.Param("account_id")

	stats, err := h.ledger.UserGameStats(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
		"count":   len(stats),
	})
}

func (h *LedgerHandler) GetGameDetails(c *gin.Context) {
	game, err := h.ledger.GameDetails(c.Request.Context(), c.Param("game_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if game == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "game": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "game": game})
}

func (h *LedgerHandler) GetResolverAccount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"resolver": h.ledger.ResolverAccount(),
	})
}

func (h *LedgerHandler) GetPendingGames(c *gin.Context) {
	games, err := h.ledger.PendingGames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"games":   games,
		"count":   len(games),
	})
}

func (h *LedgerHandler) GetAllUsers(c *gin.Context) {
	start, err := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
	if err != nil || start < 0 {
		start = 0
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	users, err := h.ledger.AllUsers(c.Request.Context(), start, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

func (h *LedgerHandler) GetContractStats(c *gin.Context) {
	stats, err := h.ledger.ContractStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
