package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret       string
	ResolverAccount string

	ChainRPCURL string
	ChainSigner string
	PoolAccount string

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:       getEnv("REDIS_PASSWORD", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		ResolverAccount: getEnv("RESOLVER_ACCOUNT_ID", ""),
		ChainRPCURL:     getEnv("CHAIN_RPC_URL", "https://rpc.mainnet.near.org"),
		ChainSigner:     getEnv("CHAIN_SIGNER_URL", ""),
		PoolAccount:     getEnv("POOL_ACCOUNT_ID", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ResolverAccount == "" {
		return nil, fmt.Errorf("RESOLVER_ACCOUNT_ID is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
