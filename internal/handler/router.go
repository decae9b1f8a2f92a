package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/adscope/internal/metrics"
	"github.com/hitoshi/adscope/internal/middleware"
)

// Pinger はヘルスチェック用のストレージ疎通確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector
	Gatherer          prometheus.Gatherer

	// 検索
	SearchService SearchServiceInterface

	// チーム
	TeamService TeamServiceInterface

	// 保存済み広告
	SavedAdService SavedAdServiceInterface
	Curator        AdCurator

	// メディア取得
	MediaHandler *MediaHandler

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	}

	searchHandler := NewSearchHandler(deps.SearchService)
	teamHandler := NewTeamHandler(deps.TeamService)
	savedAdHandler := NewSavedAdHandler(deps.SavedAdService, deps.Curator, deps.Collector)

	// 広告検索
	r.Post("/api/search", searchHandler.Search)

	// チーム管理と保存済み広告
	r.Route("/api/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Post("/", teamHandler.CreateTeam)

		r.Route("/{name}", func(r chi.Router) {
			r.Delete("/", teamHandler.DeleteTeam)

			r.Route("/ads", func(r chi.Router) {
				r.Get("/", savedAdHandler.ListSavedAds)
				r.Post("/", savedAdHandler.SaveAd)
				r.Delete("/{archiveID}", savedAdHandler.DeleteSavedAd)
			})
		})
	})

	// メディア取得
	if deps.MediaHandler != nil {
		r.Get("/api/media/fetch", deps.MediaHandler.FetchMedia)
	}

	// ヘルスチェック
	r.Get("/health", healthHandler(deps.DB))

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	return r
}

// healthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
