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

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/generator"
	"github.com/zintix-labs/drawlab/recorder"
)

const (
	maxBacktestTickets = 1_000_000
	backtestWorkers    = 4
)

// Backtest POST /v1/backtest {game, mode, tickets, seed?, draws?}
//
// 產生 tickets 組號碼逐一比對歷史；未提供 draws 時使用已儲存的歷史。
func (h *Handler) Backtest(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Game    string   `json:"game"`
		Mode    string   `json:"mode"`
		Tickets int      `json:"tickets"`
		Seed    *int64   `json:"seed,omitempty"`
		Draws   []json.RawMessage `json:"draws"`
	}
	type response struct {
		Report   *recorder.BacktestReport `json:"report"`
		UsedTime int64                    `json:"used_ms"`
	}

	req := new(request)
	if err := decodeJSON(w, r, req); err != nil {
		h.fail(w, "backtest decode failed", err)
		return
	}
	rs, err := h.lab.Enabled(req.Game)
	if err != nil {
		h.fail(w, "backtest failed", err)
		return
	}
	mode, err := generator.ParseMode(req.Mode)
	if err != nil {
		h.fail(w, "backtest failed", err)
		return
	}
	if req.Tickets < 1 || req.Tickets > maxBacktestTickets {
		h.fail(w, "backtest failed", errs.NewWarn("tickets must be between 1 to 1,000,000"))
		return
	}
	seed := h.lab.NextSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	draws := toDraws(req.Draws)
	if req.Draws == nil {
		draws, err = h.history(r.Context(), rs.ID)
	}
	if err != nil {
		h.fail(w, "load history failed", err)
		return
	}

	rep, err := h.lab.BacktestWithSeed(rs.ID, mode, draws, req.Tickets, backtestWorkers, seed, false)
	if err != nil {
		h.fail(w, "backtest failed", err)
		return
	}
	writeJSON(w, http.StatusOK, response{Report: rep, UsedTime: rep.Used.Milliseconds()})
}
