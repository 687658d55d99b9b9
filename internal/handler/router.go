package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/viora/viora/internal/event"
	"github.com/viora/viora/internal/metrics"
	"github.com/viora/viora/internal/middleware"
)

// HealthChecker はヘルスチェックのためのインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// ヘルスチェック
	HealthChecker HealthChecker

	// ドメインサービス
	FeedService     FeedServiceInterface
	LikeService     LikeServiceInterface
	PublishService  PublishServiceInterface
	GenerateService GenerateServiceInterface

	// ライブ配信
	Bus              *event.Bus
	StreamBufferSize int

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeadersMiddleware → LoggingMiddleware → RecoveryMiddleware
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())

	feedHandler := NewFeedHandler(deps.FeedService)
	likeHandler := NewLikeHandler(deps.LikeService)
	publishHandler := NewPublishHandler(deps.PublishService)
	generateHandler := NewGenerateHandler(deps.GenerateService)
	streamHandler := NewStreamHandler(deps.Bus, deps.Collector, deps.StreamBufferSize)

	// 運用エンドポイント
	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// フィード
	r.Route("/feed", func(r chi.Router) {
		r.Get("/", feedHandler.ListFeed)
		r.Put("/", feedHandler.UpdateHearts)
		r.Get("/stream", streamHandler.Stream)
	})

	// ハートトグル
	r.Post("/like/{id}", likeHandler.ToggleHeart)

	// 公開・生成
	r.Post("/publish", publishHandler.Publish)
	r.Post("/generate", generateHandler.Generate)

	return r
}

// newHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unhealthy"}`))
				return
			}
		}
		w.Write([]byte(`{"status":"ok"}`))
	}
}
