package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Header and idle timeouts are fixed; handlers
// own their request deadlines through context.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
