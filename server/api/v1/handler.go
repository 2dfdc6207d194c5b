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

// Package v1 實作 /v1 JSON API：彩種查詢、驗證、分析、產號、回測與歷史開獎匯入。
package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/drawlab"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/server/httperr"
	"github.com/zintix-labs/drawlab/server/netsvr/middleware"
	"github.com/zintix-labs/drawlab/server/svrcfg"
	"github.com/zintix-labs/drawlab/store"
)

const (
	maxJSONBody = 5 << 20  // 5MB
	maxCSVBody  = 20 << 20 // 20MB
	reqTimeout  = 10 * time.Second
)

// Handler 持有 /v1 所需的全部依賴
type Handler struct {
	lab *drawlab.Lab
	st  *store.Store
	log *slog.Logger
	m   *middleware.Metrics
}

// NewHandler 建立 Handler；m 可為 nil（不統計業務指標）
func NewHandler(sCfg *svrcfg.SvrCfg, m *middleware.Metrics) (*Handler, error) {
	if sCfg == nil || sCfg.Lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	log := sCfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{lab: sCfg.Lab, st: sCfg.Store, log: log, m: m}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON 解析 JSON 請求；數字保留為 json.Number 交給 validator 判斷
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return errs.Warnf("invalid json: %v", err)
	}
	return nil
}

// rawNumbers 將 numbers 欄位轉為 []any；不是陣列時回傳 nil（由 validator 回報 TypeError）
func rawNumbers(msg json.RawMessage) []any {
	if len(msg) == 0 {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(string(msg)))
	dec.UseNumber()
	var out []any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}

func queryInt64(r *http.Request, key string) (*int64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errs.Warnf("%s must be int64", key)
	}
	return &v, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Warnf("%s must be integer", key)
	}
	return v, nil
}

// history 讀取已儲存的歷史開獎；未設定 store 時視為沒有歷史
func (h *Handler) history(ctx context.Context, game string) ([]history.Draw, error) {
	if h.st == nil {
		return []history.Draw{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, reqTimeout)
	defer cancel()
	return h.st.Load(ctx, game)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	httperr.Log(h.log, msg, err)
	httperr.Errs(w, err)
}
