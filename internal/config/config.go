// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// 認証戦略の識別子。
const (
	// AuthStrategyJWT は自己完結型の署名付きクレームトークン戦略。
	AuthStrategyJWT = "jwt"
	// AuthStrategySession はDBセッションテーブル参照戦略。
	AuthStrategySession = "session"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime time.Duration

	// Auth
	// TokenSecretは必須とし、コンパイル時のデフォルト値を持たない。
	AuthStrategy  string
	TokenSecret   string
	TokenTTL      time.Duration
	SessionMaxAge time.Duration

	// Rate Limit
	RateLimitLogin int // ログイン試行のレート（req/min/IP）

	// Report
	ReportStartDate time.Time

	// Server
	ServerPort string
	StaticDir  string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	if cfg.TokenSecret == "" {
		missing = append(missing, "TOKEN_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.AuthStrategy = getEnvString("AUTH_STRATEGY", AuthStrategyJWT)
	if cfg.AuthStrategy != AuthStrategyJWT && cfg.AuthStrategy != AuthStrategySession {
		return nil, fmt.Errorf("invalid AUTH_STRATEGY: %q (must be %q or %q)",
			cfg.AuthStrategy, AuthStrategyJWT, AuthStrategySession)
	}

	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxIdleTime = getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 7*24*time.Hour)
	cfg.SessionMaxAge = getEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8000")
	cfg.StaticDir = getEnvString("STATIC_DIR", "./static")

	startDate := getEnvString("REPORT_START_DATE", "2019-09-02")
	d, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_START_DATE: %w", err)
	}
	cfg.ReportStartDate = d

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
