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

package api

import (
	"net/http"

	v1 "github.com/zintix-labs/drawlab/server/api/v1"
	"github.com/zintix-labs/drawlab/server/netsvr"
	"github.com/zintix-labs/drawlab/server/netsvr/middleware"
	"github.com/zintix-labs/drawlab/server/svrcfg"
)

// RegisterRoutes 註冊 middleware 與全部路由
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	m := middleware.NewMetrics()
	registerMiddleware(svr, sCfg, m)   // 1. 註冊 middleware
	registerOps(svr, m)                // 2. 健康檢查與指標
	return registerV1API(svr, sCfg, m) // 3. 註冊 v1 api
}

// 註冊 middleware；chi 要求在任何路由之前
func registerMiddleware(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, m *middleware.Metrics) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	svr.Use(middleware.RateLimit(sCfg.RateLimit, sCfg.RateBurst))
	svr.Use(m.Middleware)
	svr.Use(middleware.Compression)
}

func registerOps(svr netsvr.NetSvr, m *middleware.Metrics) {
	svr.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	})
	svr.Handle("/metrics", m.Handler())
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, m *middleware.Metrics) error {
	h, err := v1.NewHandler(sCfg, m)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/games", h.Games)
		vOne.Get("/games/{id}", h.Game)

		vOne.Post("/validate", h.Validate)
		vOne.Post("/analyze", h.Analyze)
		vOne.Get("/generate", h.Generate)
		vOne.Post("/generate", h.Generate)
		vOne.Post("/backtest", h.Backtest)

		vOne.Get("/draws/{id}", h.Draws)
		vOne.Post("/draws/{id}", h.ImportDraws)
		vOne.Delete("/draws/{id}", h.DeleteDraws)
	})
	return nil
}
