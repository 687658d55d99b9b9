// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層・配信ハンドラー・生成クライアントから利用する。
type MetricsCollector interface {
	RecordImagePublished()
	RecordHeartToggle(action string)
	RecordStreamConnected()
	RecordStreamDisconnected()
	RecordGenerateLatency(duration time.Duration)
	RecordGenerateFailure(reason string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	imagesPublished  prometheus.Counter
	heartToggles     *prometheus.CounterVec
	streamClients    prometheus.Gauge
	generateLatency  prometheus.Histogram
	generateFailures *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		imagesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "viora_images_published_total",
			Help: "フィードに公開された画像の合計数",
		}),
		heartToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viora_heart_toggles_total",
			Help: "ハートトグル操作のアクション別合計数",
		}, []string{"action"}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "viora_stream_clients",
			Help: "現在接続中のライブ配信クライアント数",
		}),
		generateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "viora_generate_latency_seconds",
			Help:    "画像生成API呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		generateFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viora_generate_failures_total",
			Help: "画像生成API呼び出し失敗の理由別合計数",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.imagesPublished,
		c.heartToggles,
		c.streamClients,
		c.generateLatency,
		c.generateFailures,
	)

	return c
}

// RecordImagePublished は画像公開を記録する。
func (c *Collector) RecordImagePublished() {
	c.imagesPublished.Inc()
}

// RecordHeartToggle はハートトグル操作を記録する。
func (c *Collector) RecordHeartToggle(action string) {
	c.heartToggles.WithLabelValues(action).Inc()
}

// RecordStreamConnected はライブ配信クライアントの接続を記録する。
func (c *Collector) RecordStreamConnected() {
	c.streamClients.Inc()
}

// RecordStreamDisconnected はライブ配信クライアントの切断を記録する。
func (c *Collector) RecordStreamDisconnected() {
	c.streamClients.Dec()
}

// RecordGenerateLatency は画像生成API呼び出しのレイテンシを記録する。
func (c *Collector) RecordGenerateLatency(duration time.Duration) {
	c.generateLatency.Observe(duration.Seconds())
}

// RecordGenerateFailure は画像生成API呼び出しの失敗を記録する。
func (c *Collector) RecordGenerateFailure(reason string) {
	c.generateFailures.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
