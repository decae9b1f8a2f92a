// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordSearchSuccess(mode string)
	RecordSearchFailure(mode string, reason string)
	RecordScrapeLatency(duration time.Duration)
	RecordAdsCurated(count int)
	RecordAdSaved(teamSlug string)
	RecordAdDeleted(teamSlug string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	searchSuccess *prometheus.CounterVec
	searchFail    *prometheus.CounterVec
	scrapeLatency prometheus.Histogram
	adsCurated    prometheus.Counter
	adsSaved      *prometheus.CounterVec
	adsDeleted    *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		searchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adscope_search_success_total",
			Help: "広告検索成功の合計数（検索モード別）",
		}, []string{"mode"}),
		searchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adscope_search_fail_total",
			Help: "広告検索失敗の合計数（検索モード別）",
		}, []string{"mode"}),
		scrapeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "adscope_scrape_latency_seconds",
			Help:    "スクレイププロバイダー呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		adsCurated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adscope_ads_curated_total",
			Help: "正規化された広告レコードの合計数",
		}),
		adsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adscope_ads_saved_total",
			Help: "保存された広告の合計数（チーム別）",
		}, []string{"team"}),
		adsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adscope_ads_deleted_total",
			Help: "削除された広告の合計数（チーム別）",
		}, []string{"team"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adscope_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.searchSuccess,
		c.searchFail,
		c.scrapeLatency,
		c.adsCurated,
		c.adsSaved,
		c.adsDeleted,
		c.httpStatus,
	)

	return c
}

// RecordSearchSuccess は検索成功を記録する。
func (c *Collector) RecordSearchSuccess(mode string) {
	c.searchSuccess.WithLabelValues(mode).Inc()
}

// RecordSearchFailure は検索失敗を記録する。
func (c *Collector) RecordSearchFailure(mode string, reason string) {
	c.searchFail.WithLabelValues(mode).Inc()
}

// RecordScrapeLatency はプロバイダー呼び出しのレイテンシを記録する。
func (c *Collector) RecordScrapeLatency(duration time.Duration) {
	c.scrapeLatency.Observe(duration.Seconds())
}

// RecordAdsCurated は正規化された広告数を記録する。
func (c *Collector) RecordAdsCurated(count int) {
	c.adsCurated.Add(float64(count))
}

// RecordAdSaved は広告の保存を記録する。
func (c *Collector) RecordAdSaved(teamSlug string) {
	c.adsSaved.WithLabelValues(teamSlug).Inc()
}

// RecordAdDeleted は広告の削除を記録する。
func (c *Collector) RecordAdDeleted(teamSlug string) {
	c.adsDeleted.WithLabelValues(teamSlug).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
