package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, view AssetView, snapshots SnapshotStore, ownerKey, adminAPIKey string) *http.Server {
	handler := NewHandler(view, snapshots, ownerKey)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/assets", handler.GetAssets)
	mux.HandleFunc("GET /api/v1/tree", handler.GetTree)
	mux.HandleFunc("GET /api/v1/summary", handler.GetSummary)
	mux.HandleFunc("GET /api/v1/snapshots/latest", handler.GetLatestSnapshot)
	mux.HandleFunc("GET /api/v1/snapshots/{date}", handler.GetSnapshotByDate)
	mux.HandleFunc("GET /api/v1/snapshots", handler.ListSnapshots)
	mux.HandleFunc("GET /api/v1/networth/history", handler.GetNetWorthHistory)

	refreshHandler := http.HandlerFunc(handler.Refresh)
	if adminAPIKey != "" {
		mux.Handle("POST /api/v1/refresh", requireAuth(adminAPIKey, refreshHandler))
	} else {
		mux.Handle("POST /api/v1/refresh", refreshHandler)
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
