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
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// accessWriter 記錄回應狀態碼與寫出的位元組數
type accessWriter struct {
	http.ResponseWriter
	status int
	bytes  int
	wrote  bool
}

func (a *accessWriter) WriteHeader(code int) {
	if !a.wrote {
		a.status = code
		a.wrote = true
	}
	a.ResponseWriter.WriteHeader(code)
}

func (a *accessWriter) Write(b []byte) (int, error) {
	a.wrote = true
	n, err := a.ResponseWriter.Write(b)
	a.bytes += n
	return n, err
}

// AccessLog 每個請求寫一筆 http.access；5xx 為 error、4xx 為 warn、其餘 info。
// route 取自 chi 的路由樣板，例如 /v1/draws/{id}。log 為 nil 時不做任何事。
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			aw := &accessWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(aw, r)

			log.LogAttrs(r.Context(), levelByStatus(aw.status), "http.access",
				slog.Int("status", aw.status),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routeOf(r)),
				slog.Int("bytes", aw.bytes),
				slog.Duration("latency", time.Since(start)),
				slog.String("req_id", ReqID(r)),
			)
		})
	}
}

// routeOf 回傳 chi 路由樣板；未匹配任何路由時使用原始路徑
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func levelByStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
