// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/hefti/internal/auth"
	"github.com/hitoshi/hefti/internal/config"
	"github.com/hitoshi/hefti/internal/database"
	"github.com/hitoshi/hefti/internal/entry"
	"github.com/hitoshi/hefti/internal/handler"
	"github.com/hitoshi/hefti/internal/logger"
	"github.com/hitoshi/hefti/internal/metrics"
	"github.com/hitoshi/hefti/internal/middleware"
	"github.com/hitoshi/hefti/internal/model"
	"github.com/hitoshi/hefti/internal/report"
	"github.com/hitoshi/hefti/internal/repository"
	"github.com/hitoshi/hefti/internal/security"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("auth_strategy", cfg.AuthStrategy),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandAddUser:
		return runAddUser(cfg, args[1:])
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	entryRepo := repository.NewPostgresEntryRepo(db)

	// 3. トークン戦略の選択
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()

	var strategy auth.TokenStrategy
	switch cfg.AuthStrategy {
	case config.AuthStrategySession:
		strategy = auth.NewSessionStrategy(sessionRepo, cfg.SessionMaxAge)
		// 失効済みセッションを日次で削除する
		go runSessionCleanup(cleanupCtx, sessionRepo)
	default:
		strategy = auth.NewClaimsStrategy([]byte(cfg.TokenSecret), cfg.TokenTTL)
	}

	// 4. ドメインサービスの初期化
	authService := auth.NewService(userRepo, strategy)
	sanitizer := security.NewTextSanitizer()
	entryService := entry.NewService(entryRepo, sanitizer)
	reportService := report.NewService(entryRepo, cfg.ReportStartDate)

	// 5. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 6. レート制限（req/min → req/sec に変換）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitLogin > 0 {
		rateLimiterCfg.LoginRate = rate.Limit(float64(cfg.RateLimitLogin) / 60.0)
		rateLimiterCfg.LoginBurst = cfg.RateLimitLogin
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	router, err := handler.NewRouter(&handler.RouterDeps{
		TokenValidator:   strategy,
		DecisionRecorder: collector,
		MetricsRecorder:  collector,
		RateLimiter:      rateLimiter,
		Logger:           slog.Default(),

		AuthService:   authService,
		LoginRecorder: collector,

		EntryService:  entryService,
		ReportService: reportService,

		StaticDir:      cfg.StaticDir,
		MetricsHandler: metrics.Handler(registry),
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runSessionCleanup は失効済みセッションの削除を起動直後と日次で実行する。
func runSessionCleanup(ctx context.Context, sessions repository.SessionRepository) {
	cleanup := func() {
		n, err := sessions.DeleteExpired(ctx)
		if err != nil {
			slog.Error("session cleanup failed", slog.String("error", err.Error()))
			return
		}
		if n > 0 {
			slog.Info("expired sessions deleted", slog.Int64("count", n))
		}
	}

	cleanup()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanup()
		}
	}
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runAddUser はユーザーを登録する。
// 使い方: hefti adduser <name> <password>
func runAddUser(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: hefti adduser <name> <password>")
	}
	name, password := args[0], args[1]

	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userRepo := repository.NewPostgresUserRepo(db)
	user := &model.User{Name: name, Password: hash}
	if err := userRepo.Create(context.Background(), user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("name", name),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
