package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"oracle-bets-backend/internal/chain"
	"oracle-bets-backend/internal/config"
	"oracle-bets-backend/internal/handlers"
	"oracle-bets-backend/internal/ledger"
	"oracle-bets-backend/internal/middleware"
	"oracle-bets-backend/internal/services"
	"oracle-bets-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	store, err := ledger.NewRedisStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer store.Close()

	chainClient := chain.NewRPCClient(cfg.ChainRPCURL, cfg.ChainSigner)

	ledgerService, err := ledger.NewService(store, chainClient, cfg.ResolverAccount)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build ledger")
	}

	jwtService := services.NewJWTService(cfg)

	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	wsHandler := handlers.NewWebSocketHandler(ledgerService)
	ledgerService.SetBroadcaster(wsHandler)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	views := router.Group("/views")
	{
		views.GET("/resolver", ledgerHandler.GetResolverAccount)
		views.GET("/stats", ledgerHandler.GetContractStats)
		views.GET("/games/pending", ledgerHandler.GetPendingGames)
		views.GET("/games/:game_id", ledgerHandler.GetGameDetails)
		views.GET("/users", ledgerHandler.GetAllUsers)
		views.GET("/users/:account_id/stats", ledgerHandler.GetUserStats)
		views.GET("/users/:account_id/game-stats", ledgerHandler.GetUserGameStats)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("/start",
				middleware.RateLimitMiddleware(store, "start", ledger.DefaultRateLimitStarts),
				ledgerHandler.StartGame)
			games.POST("/resolve", ledgerHandler.ResolveGame)
		}

		protected.POST("/wallet/withdraw",
			middleware.RateLimitMiddleware(store, "withdraw", ledger.DefaultRateLimitWithdraws),
			ledgerHandler.Withdraw)
	}

	logger.Info().
		Str("port", cfg.Port).
		Str("resolver", cfg.ResolverAccount).
		Msg("server starting")

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
