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
	"net/http"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/generator"
)

type generateRequest struct {
	Game  string `json:"game"`
	Mode  string `json:"mode"`
	Count int    `json:"count"`
	Seed  *int64 `json:"seed,omitempty"`
}

type generateResponse struct {
	Game    string             `json:"game"`
	Seed    int64              `json:"seed"`
	Tickets []generator.Result `json:"tickets"`
}

// MaxTickets 單次請求最多產生的號碼組數
const MaxTickets = 100

// Generate GET|POST /v1/generate
//
// GET 參數：game, mode, count, seed。未帶 seed 時由 Lab 的 seed 序列派生，
// 回應中的 seed 可用於重現：同一個 seed 與 count 會得到同樣的號碼組。
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	req := &generateRequest{Count: 1}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Game = q.Get("game")
		req.Mode = q.Get("mode")
		n, err := queryInt(r, "count", 1)
		if err != nil {
			h.fail(w, "generate query failed", err)
			return
		}
		req.Count = n
		if req.Seed, err = queryInt64(r, "seed"); err != nil {
			h.fail(w, "generate query failed", err)
			return
		}
	case http.MethodPost:
		if err := decodeJSON(w, r, req); err != nil {
			h.fail(w, "generate decode failed", err)
			return
		}
		if req.Count == 0 {
			req.Count = 1
		}
	default:
		h.fail(w, "generate failed", errs.NewWarn("method not allowed"))
		return
	}

	if req.Count < 1 || req.Count > MaxTickets {
		h.fail(w, "generate failed", errs.Warnf("count must be between 1 and %d", MaxTickets))
		return
	}
	rs, err := h.lab.Enabled(req.Game)
	if err != nil {
		h.fail(w, "generate failed", err)
		return
	}
	mode, err := generator.ParseMode(req.Mode)
	if err != nil {
		h.fail(w, "generate failed", err)
		return
	}
	seed := h.lab.NextSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	resp := generateResponse{Game: rs.ID, Seed: seed, Tickets: make([]generator.Result, 0, req.Count)}
	for i := 0; i < req.Count; i++ {
		// 第 i 組使用 seed+i，單組請求與多組請求的第一組一致
		res, err := h.lab.GenerateDetail(rs.ID, mode, seed+int64(i))
		if err != nil {
			h.fail(w, "generate failed", err)
			return
		}
		resp.Tickets = append(resp.Tickets, res)
		h.m.Generated(rs.ID, mode.String())
	}
	writeJSON(w, http.StatusOK, resp)
}
