package server

import (
	"encoding/json"
	"net/http"
)

/* ------------------------------- HTTP ------------------------------- */

// NewMux serves the status summary on "/", the viewer stream on "/ws" and
// a liveness probe on "/healthz".
func NewMux(h *Hub, status func() Status) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(status())
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		h.serveWS(w, r)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
