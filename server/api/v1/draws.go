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
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/ingest"
)

type drawsResponse struct {
	Game    string         `json:"game"`
	Summary ingest.Summary `json:"summary"`
	Draws   []history.Draw `json:"draws"`
}

type importResponse struct {
	Game    string         `json:"game"`
	Rows    int            `json:"rows"`
	Skipped int            `json:"skipped"`
	Columns ingest.Columns `json:"columns"`
	Summary ingest.Summary `json:"summary"`
}

// ImportDraws POST /v1/draws/{id}：CSV 內容取代該彩種的已儲存歷史。
// ?mode=append 改為追加。
func (h *Handler) ImportDraws(w http.ResponseWriter, r *http.Request) {
	if h.st == nil {
		h.fail(w, "import draws failed", errs.NewFatal("draw store is not configured"))
		return
	}
	rs, err := h.lab.Ruleset(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "import draws failed", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCSVBody)
	res, err := ingest.ParseCSV(r.Body)
	if err != nil {
		h.fail(w, "parse csv failed", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reqTimeout)
	defer cancel()
	source := strings.TrimSpace(r.URL.Query().Get("source"))
	if source == "" {
		source = "upload"
	}
	if strings.EqualFold(r.URL.Query().Get("mode"), "append") {
		err = h.st.Append(ctx, rs.ID, res.Draws)
	} else {
		err = h.st.Save(ctx, rs.ID, source, res.Draws)
	}
	if err != nil {
		h.fail(w, "store draws failed", err)
		return
	}

	all, err := h.st.Load(ctx, rs.ID)
	if err != nil {
		h.fail(w, "load draws failed", err)
		return
	}
	h.m.StoredDraws(rs.ID, len(all))
	h.log.Info("draws imported", "game", rs.ID, "rows", len(res.Draws), "skipped", res.Skipped, "stored", len(all))

	writeJSON(w, http.StatusOK, importResponse{
		Game:    rs.ID,
		Rows:    len(res.Draws),
		Skipped: res.Skipped,
		Columns: res.Columns,
		Summary: ingest.Summarize(all),
	})
}

// Draws GET /v1/draws/{id}：已儲存的歷史與摘要
func (h *Handler) Draws(w http.ResponseWriter, r *http.Request) {
	rs, err := h.lab.Ruleset(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "list draws failed", err)
		return
	}
	draws, err := h.history(r.Context(), rs.ID)
	if err != nil {
		h.fail(w, "list draws failed", err)
		return
	}
	writeJSON(w, http.StatusOK, drawsResponse{Game: rs.ID, Summary: ingest.Summarize(draws), Draws: draws})
}

// DeleteDraws DELETE /v1/draws/{id}
func (h *Handler) DeleteDraws(w http.ResponseWriter, r *http.Request) {
	if h.st == nil {
		h.fail(w, "delete draws failed", errs.NewFatal("draw store is not configured"))
		return
	}
	rs, err := h.lab.Ruleset(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "delete draws failed", err)
		return
	}
	n, err := h.st.Delete(r.Context(), rs.ID)
	if err != nil {
		h.fail(w, "delete draws failed", err)
		return
	}
	h.m.StoredDraws(rs.ID, 0)
	writeJSON(w, http.StatusOK, map[string]any{"game": rs.ID, "deleted": n})
}
