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

package middleware_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/zintix-labs/drawlab/server/netsvr/middleware"
)

var payload = strings.Repeat(`{"numbers":[5,12,25,38,45,55]}`, 50)

func serve(h http.Handler, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, payload)
}

func TestCompressionGzip(t *testing.T) {
	rec := serve(middleware.Compression(http.HandlerFunc(jsonHandler)), "gzip, deflate")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip, got %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Fatalf("gzip round trip mismatch")
	}
}

func TestCompressionPrefersZstd(t *testing.T) {
	rec := serve(middleware.Compression(http.HandlerFunc(jsonHandler)), "gzip, zstd")
	if rec.Header().Get("Content-Encoding") != "zstd" {
		t.Fatalf("expected zstd, got %q", rec.Header().Get("Content-Encoding"))
	}
	dec, err := zstd.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Fatalf("zstd round trip mismatch")
	}
}

func TestCompressionSkipsNoBody(t *testing.T) {
	h := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := serve(h, "gzip")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("204 must not carry a compressed footer, got %d bytes", rec.Body.Len())
	}
	if rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("204 must not declare an encoding")
	}
}

func TestCompressionPassThrough(t *testing.T) {
	rec := serve(middleware.Compression(http.HandlerFunc(jsonHandler)), "")
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != payload {
		t.Fatalf("plain response expected")
	}
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := middleware.RateLimit(0.001, 2)(ok)
	for i := 0; i < 2; i++ {
		if rec := serve(h, ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec := serve(h, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After missing")
	}

	unlimited := middleware.RateLimit(0, 0)(ok)
	for i := 0; i < 100; i++ {
		if rec := serve(unlimited, ""); rec.Code != http.StatusOK {
			t.Fatalf("unlimited request %d: status %d", i, rec.Code)
		}
	}
}

func TestAccessLogLevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := middleware.RequestID(middleware.AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})))
	serve(h, "")
	out := buf.String()
	for _, want := range []string{"level=WARN", "msg=http.access", "status=404", "method=GET", "req_id="} {
		if !strings.Contains(out, want) {
			t.Fatalf("access log %q missing %q", out, want)
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	m := middleware.NewMetrics()
	h := m.Middleware(http.HandlerFunc(jsonHandler))
	serve(h, "")
	m.Analysis("melate", true)
	m.Generated("melate", "smart")
	m.StoredDraws("melate", 12)

	rec := serve(m.Handler(), "")
	body := rec.Body.String()
	for _, want := range []string{
		`drawlab_http_requests_total{route="/",status="200"} 1`,
		`drawlab_analyses_total{game="melate",valid="true"} 1`,
		`drawlab_generated_tickets_total{game="melate",mode="smart"} 1`,
		`drawlab_stored_draws{game="melate"} 12`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}

	// 兩個實例互不衝突
	_ = middleware.NewMetrics()

	var nilMetrics *middleware.Metrics
	nilMetrics.Analysis("melate", false)
}

func TestRecoverWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	h := middleware.RequestID(middleware.Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rec := serve(h, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"internal error"`) {
		t.Fatalf("body got %q", rec.Body.String())
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("request id header missing")
	}
	if !strings.Contains(buf.String(), "http.panic") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}

func TestRecoverRepanicsAbort(t *testing.T) {
	h := middleware.Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler, got %v", rec)
		}
	}()
	serve(h, "")
}
