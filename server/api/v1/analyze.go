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
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/ingest"
	"github.com/zintix-labs/drawlab/validator"
)

// drawIn API 端的歷史開獎；日期接受 ingest 支援的所有格式（含 Excel 序列數字）
type drawIn struct {
	Date    json.RawMessage `json:"date"`
	Numbers json.RawMessage `json:"numbers"`
	Bonus   json.RawMessage `json:"bonus,omitempty"`
}

type ticketRequest struct {
	Game    string            `json:"game"`
	Numbers json.RawMessage   `json:"numbers"`
	Draws   []json.RawMessage `json:"draws"` // nil 代表未提供：改用已儲存的歷史
}

// toDraws 逐筆寬鬆解碼；無法解讀的日期或號碼會得到 Numbers 為 nil 的紀錄，
// 由 history 正規化時略過並計入 skipped，不會讓整個請求失敗。
func toDraws(in []json.RawMessage) []history.Draw {
	out := make([]history.Draw, len(in))
	for i, raw := range in {
		var d drawIn
		if err := json.Unmarshal(raw, &d); err != nil {
			continue
		}
		date, ok := drawDate(d.Date)
		if !ok {
			continue
		}
		out[i] = history.Draw{Date: date, Numbers: drawNumbers(d.Numbers), Bonus: drawBonus(d.Bonus)}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// drawDate 空值視為未知日期（零值）；其餘必須可解析
func drawDate(raw json.RawMessage) (time.Time, bool) {
	if isNull(raw) {
		return time.Time{}, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	if strings.TrimSpace(s) == "" {
		return time.Time{}, true
	}
	return ingest.ParseDate(s)
}

// drawNumbers 任一值不是整數時回傳 nil
func drawNumbers(raw json.RawMessage) []int {
	nums, res := validator.Coerce(rawNumbers(raw))
	if !res.OK {
		return nil
	}
	out := make([]int, len(nums))
	for i, f := range nums {
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil
		}
		out[i] = int(f)
	}
	return out
}

func drawBonus(raw json.RawMessage) *int {
	if isNull(raw) {
		return nil
	}
	ns := drawNumbers(json.RawMessage("[" + string(raw) + "]"))
	if len(ns) != 1 {
		return nil
	}
	return &ns[0]
}

// Validate POST /v1/validate {game, numbers} → {ok, error?, kind?}
//
// 驗證失敗仍回 200；只有未知 / 停用的彩種與格式錯誤的請求才是 4xx。
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	req := new(ticketRequest)
	if err := decodeJSON(w, r, req); err != nil {
		h.fail(w, "validate decode failed", err)
		return
	}
	res, err := h.lab.Validate(rawNumbers(req.Numbers), req.Game)
	if err != nil {
		h.fail(w, "validate failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Analyze POST /v1/analyze {game, numbers, draws?} → 診斷報告
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	req := new(ticketRequest)
	if err := decodeJSON(w, r, req); err != nil {
		h.fail(w, "analyze decode failed", err)
		return
	}
	rs, err := h.lab.Enabled(req.Game)
	if err != nil {
		h.fail(w, "analyze failed", err)
		return
	}

	draws := toDraws(req.Draws)
	if req.Draws == nil {
		draws, err = h.history(r.Context(), rs.ID)
	}
	if err != nil {
		h.fail(w, "load history failed", err)
		return
	}

	rep, err := h.lab.Analyze(rawNumbers(req.Numbers), rs.ID, draws)
	if err != nil {
		h.fail(w, "analyze failed", err)
		return
	}
	h.m.Analysis(rep.Game, rep.Valid)
	writeJSON(w, http.StatusOK, rep)
}
