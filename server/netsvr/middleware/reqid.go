package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader 回寫給客戶端的請求編號標頭
const RequestIDHeader = "X-Request-Id"

// RequestID 為每個請求產生編號（或沿用客戶端送來的 X-Request-Id），並回寫到回應標頭
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := ReqID(r); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

// ReqID 取出目前請求的編號；未經過 RequestID 時回傳空字串
func ReqID(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}
