package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oracle-bets-backend/internal/chain"
	"oracle-bets-backend/internal/config"
	"oracle-bets-backend/internal/handlers"
	"oracle-bets-backend/internal/ledger"
	"oracle-bets-backend/internal/middleware"
	"oracle-bets-backend/internal/services"
)

const (
	testResolver = "oracle.near"
	testPlayer   = "alice.near"
	oneNear      = "1000000000000000000000000"
)

func setupRouter(t *testing.T) (*gin.Engine, *services.JWTService, *chain.Mock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		ResolverAccount: testResolver,
	}

	store := ledger.NewMemoryStore()
	mock := chain.NewMock(100)

	ledgerService, err := ledger.NewService(store, mock, cfg.ResolverAccount)
	require.NoError(t, err)

	jwtService := services.NewJWTService(cfg)
	handler := handlers.NewLedgerHandler(ledgerService)

	router := gin.New()

	views := router.Group("/views")
	{
		views.GET("/resolver", handler.GetResolverAccount)
		views.GET("/stats", handler.GetContractStats)
		views.GET("/games/pending", handler.GetPendingGames)
		views.GET("/games/:game_id", handler.GetGameDetails)
		views.GET("/users", handler.GetAllUsers)
		views.GET("/users/:account_id/stats", handler.GetUserStats)
		views.GET("/users/:account_id/game-stats", handler.GetUserGameStats)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.POST("/games/start",
			middleware.RateLimitMiddleware(nil, "start", ledger.DefaultRateLimitStarts),
			handler.StartGame)
		protected.POST("/games/resolve", handler.ResolveGame)
		protected.POST("/wallet/withdraw", handler.Withdraw)
	}

	return router, jwtService, mock
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestStartGameRequiresAuth(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/games/start", "", gin.H{
		"game_id": "g1",
		"deposit": oneNear,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestViewsArePublic(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/views/resolver", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testResolver, decode(t, w)["resolver"])

	w = doJSON(t, router, http.MethodGet, "/views/games/pending", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFullGameFlow(t *testing.T) {
	router, jwtService, mock := setupRouter(t)

	playerToken, err := jwtService.GenerateToken(testPlayer)
	require.NoError(t, err)
	resolverToken, err := jwtService.GenerateToken(testResolver)
	require.NoError(t, err)

	// Start a game with a 1 NEAR stake.
	w := doJSON(t, router, http.MethodPost, "/api/games/start", playerToken, gin.H{
		"game_id":   "g1",
		"game_type": "crash",
		"deposit":   oneNear,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Same id again collides.
	w = doJSON(t, router, http.MethodPost, "/api/games/start", playerToken, gin.H{
		"game_id": "g1",
		"deposit": oneNear,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The player cannot resolve their own game.
	w = doJSON(t, router, http.MethodPost, "/api/games/resolve", playerToken, gin.H{
		"game_id": "g1",
		"did_win": true,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The resolver settles it as a 2.0x win.
	w = doJSON(t, router, http.MethodPost, "/api/games/resolve", resolverToken, gin.H{
		"game_id":            "g1",
		"did_win":            true,
		"multiplier_percent": 200,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Resolution is one-shot.
	w = doJSON(t, router, http.MethodPost, "/api/games/resolve", resolverToken, gin.H{
		"game_id": "g1",
		"did_win": false,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Public stats view shows the credited winnings.
	w = doJSON(t, router, http.MethodGet, "/views/users/"+testPlayer+"/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["stats"].(map[string]interface{})
	assert.Equal(t, "2000000000000000000000000", stats["withdrawable_balance"])
	assert.Equal(t, oneNear, stats["total_bet"])

	// Withdraw transfers the full balance.
	w = doJSON(t, router, http.MethodPost, "/api/wallet/withdraw", playerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	receipt := decode(t, w)["receipt"].(map[string]interface{})
	assert.Equal(t, "2000000000000000000000000", receipt["amount"])
	assert.NotEmpty(t, receipt["receipt_id"])
	require.Len(t, mock.Transfers(), 1)

	// Nothing left for a second withdraw.
	w = doJSON(t, router, http.MethodPost, "/api/wallet/withdraw", playerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartGameRejectsBadDeposit(t *testing.T) {
	router, jwtService, _ := setupRouter(t)

	token, err := jwtService.GenerateToken(testPlayer)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/api/games/start", token, gin.H{
		"game_id": "g1",
		"deposit": "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Binding rejects a missing deposit outright.
	w = doJSON(t, router, http.MethodPost, "/api/games/start", token, gin.H{
		"game_id": "g1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveRejectsMalformedRequests(t *testing.T) {
	router, jwtService, _ := setupRouter(t)

	token, err := jwtService.GenerateToken(testResolver)
	require.NoError(t, err)

	// did_win is required.
	w := doJSON(t, router, http.MethodPost, "/api/games/resolve", token, gin.H{
		"game_id": "g1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Negative multipliers never bind.
	w = doJSON(t, router, http.MethodPost, "/api/games/resolve", token, gin.H{
		"game_id":            "g1",
		"did_win":            true,
		"multiplier_percent": -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/games/resolve", token, gin.H{
		"game_id": "missing",
		"did_win": true,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
