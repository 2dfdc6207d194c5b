// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服務的 Prometheus 指標。每個實例持有自己的 Registry，可重複建立（測試）。
type Metrics struct {
	reg         *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	analyses    *prometheus.CounterVec
	generated   *prometheus.CounterVec
	drawsStored *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drawlab_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drawlab_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drawlab_analyses_total",
			Help: "Total diagnostic reports by game and validity.",
		}, []string{"game", "valid"}),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drawlab_generated_tickets_total",
			Help: "Total generated tickets by game and mode.",
		}, []string{"game", "mode"}),
		drawsStored: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "drawlab_stored_draws",
			Help: "Number of stored history draws by game.",
		}, []string{"game"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.analyses,
		m.generated,
		m.drawsStored,
	)
	return m
}

// Middleware 依 chi 路由樣板（例如 /v1/games/{id}）統計請求數與耗時
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &accessWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := routeOf(r)
		m.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Analysis(game string, valid bool) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(game, strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) Generated(game string, mode string) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(game, mode).Inc()
}

func (m *Metrics) StoredDraws(game string, n int) {
	if m == nil {
		return
	}
	m.drawsStored.WithLabelValues(game).Set(float64(n))
}
