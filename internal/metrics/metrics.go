// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ワーカーやサービス層から利用する。
type MetricsCollector interface {
	RecordJobCreated()
	RecordJobPublished()
	RecordJobExtended()
	RecordJobDeleted()
	RecordCleanupDeleted(count int64)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	jobsCreated    prometheus.Counter
	jobsPublished  prometheus.Counter
	jobsExtended   prometheus.Counter
	jobsDeleted    prometheus.Counter
	cleanupDeleted prometheus.Counter
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		jobsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_jobs_created_total",
			Help: "作成された求人の合計数",
		}),
		jobsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_jobs_published_total",
			Help: "公開された求人の合計数",
		}),
		jobsExtended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_jobs_extended_total",
			Help: "掲載延長された求人の合計数",
		}),
		jobsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_jobs_deleted_total",
			Help: "削除された求人の合計数",
		}),
		cleanupDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_cleanup_deleted_total",
			Help: "クリーンアップで削除された古い求人の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobboard_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.jobsCreated,
		c.jobsPublished,
		c.jobsExtended,
		c.jobsDeleted,
		c.cleanupDeleted,
		c.httpStatus,
	)

	return c
}

// RecordJobCreated は求人の作成を記録する。
func (c *Collector) RecordJobCreated() {
	c.jobsCreated.Inc()
}

// RecordJobPublished は求人の公開を記録する。
func (c *Collector) RecordJobPublished() {
	c.jobsPublished.Inc()
}

// RecordJobExtended は求人の掲載延長を記録する。
func (c *Collector) RecordJobExtended() {
	c.jobsExtended.Inc()
}

// RecordJobDeleted は求人の削除を記録する。
func (c *Collector) RecordJobDeleted() {
	c.jobsDeleted.Inc()
}

// RecordCleanupDeleted はクリーンアップで削除された求人数を記録する。
func (c *Collector) RecordCleanupDeleted(count int64) {
	c.cleanupDeleted.Add(float64(count))
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
