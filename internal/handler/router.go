package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/hefti/internal/middleware"
)

// DefaultAllowList は認証なしで到達できるパスの既定値。
// "/" は完全一致のみ、それ以外はセグメント境界での前置一致。
var DefaultAllowList = []string{
	"/",
	"/api/auth/login",
	"/static",
	"/health",
	"/metrics",
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator   middleware.TokenValidator
	AllowList        []string
	DecisionRecorder middleware.AuthDecisionRecorder
	MetricsRecorder  middleware.HTTPMetricsRecorder
	RateLimiter      *middleware.RateLimiter
	Logger           *slog.Logger

	// 認証
	AuthService   AuthServiceInterface
	LoginRecorder LoginAttemptRecorder

	// 記録
	EntryService EntryServiceInterface

	// 報告書
	ReportService ReportServiceInterface

	// 静的ファイル
	StaticDir string

	// メトリクス公開
	MetricsHandler http.Handler
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → Bearer（認証ゲートウェイ）
//
// ゲートウェイは全リクエストを横取りし、許可リスト該当パスのみ
// 認証なしで通過させる。ルート分岐での保護切り替えは行わない。
func NewRouter(deps *RouterDeps) (http.Handler, error) {
	r := chi.NewRouter()

	allowList := deps.AllowList
	if allowList == nil {
		allowList = DefaultAllowList
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}
	r.Use(middleware.NewBearerMiddleware(deps.TokenValidator, allowList, deps.DecisionRecorder))

	authHandler := NewAuthHandler(deps.AuthService, deps.LoginRecorder)
	entryHandler := NewEntryHandler(deps.EntryService)
	printHandler, err := NewPrintHandler(deps.ReportService)
	if err != nil {
		return nil, err
	}

	// --- 許可リスト該当ルート ---

	r.Get("/", serveIndex(deps.StaticDir))
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(deps.StaticDir))))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
		} else {
			r.Post("/login", authHandler.Login)
		}
		r.Post("/logout", authHandler.Logout)
	})

	// --- ゲートウェイ保護下のルート ---

	r.Route("/api/entry", func(r chi.Router) {
		r.Get("/", entryHandler.List)
		r.Post("/", entryHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", entryHandler.Get)
			r.Put("/", entryHandler.Update)
			r.Delete("/", entryHandler.Delete)
		})
	})

	r.Get("/print/{year}/{week}", printHandler.PrintWeek)

	return r, nil
}

// serveIndex は静的ディレクトリのindex.htmlを返すハンドラーを生成する。
func serveIndex(staticDir string) http.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	}
}
