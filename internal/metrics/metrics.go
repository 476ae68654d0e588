// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ストア操作の結果ラベル
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Collector はPrometheusメトリクスを収集する実装。
// middleware.HTTPMetricsRecorder、middleware.AuthRejectionRecorder、
// auth.LoginRecorder、store.OperationRecorderを満たす。
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
	authRejections  *prometheus.CounterVec
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashapi_http_requests_total",
			Help: "HTTPリクエスト数（メソッド・ルート・ステータス別）",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashapi_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashapi_login_attempts_total",
			Help: "ログイン試行数（結果別）",
		}, []string{"result"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashapi_auth_rejections_total",
			Help: "認証ゲートで拒否されたリクエスト数（理由別）",
		}, []string{"reason"}),
		storeOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashapi_store_operations_total",
			Help: "ドキュメントストア操作数（操作・結果別）",
		}, []string{"operation", "result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashapi_store_operation_duration_seconds",
			Help:    "ドキュメントストア操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.loginAttempts,
		c.authRejections,
		c.storeOperations,
		c.storeLatency,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの結果と処理時間を記録する。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLoginAttempt はログイン試行の結果を記録する。
func (c *Collector) RecordLoginAttempt(success bool) {
	result := ResultFailure
	if success {
		result = ResultSuccess
	}
	c.loginAttempts.WithLabelValues(result).Inc()
}

// RecordAuthRejection は認証ゲートでの拒否を記録する。
func (c *Collector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

// RecordStoreOperation はドキュメントストア操作の結果とレイテンシを記録する。
func (c *Collector) RecordStoreOperation(operation string, err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	c.storeOperations.WithLabelValues(operation, result).Inc()
	c.storeLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
