// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 認証ゲートウェイの判定結果とHTTPリクエストの統計を記録する。
type Collector struct {
	authDecisions   *prometheus.CounterVec
	loginAttempts   *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hefti_auth_decisions_total",
			Help: "認証ゲートウェイの判定結果別のリクエスト数",
		}, []string{"decision"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hefti_login_attempts_total",
			Help: "ログイン試行の結果別の合計数",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hefti_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hefti_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.authDecisions,
		c.loginAttempts,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordAuthDecision はゲートウェイの判定結果を記録する。
func (c *Collector) RecordAuthDecision(decision string) {
	c.authDecisions.WithLabelValues(decision).Inc()
}

// RecordLoginAttempt はログイン試行の結果を記録する。
// resultは "success"、"invalid_credentials"、"error" のいずれか。
func (c *Collector) RecordLoginAttempt(result string) {
	c.loginAttempts.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はレスポンスのステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler は指定レジストリのメトリクスを公開するHTTPハンドラーを返す。
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
