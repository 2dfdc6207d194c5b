package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zintix-labs/drawlab/ruleset"
)

// Games GET /v1/games：啟用中的彩種
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	type resp struct {
		Games []ruleset.Summary `json:"games"`
	}
	writeJSON(w, http.StatusOK, resp{Games: h.lab.Games()})
}

// Game GET /v1/games/{id}：完整規則（停用的彩種也可以查）
func (h *Handler) Game(w http.ResponseWriter, r *http.Request) {
	rs, err := h.lab.Ruleset(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get game failed", err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}
