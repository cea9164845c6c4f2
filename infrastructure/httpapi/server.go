// Package httpapi exposes the notification layer over HTTP: two producer
// endpoints, the SSE event stream, and a health endpoint.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"notify-lab/observability"
	"notify-lab/runtime"
	"notify-lab/services"
)

// Server bridges HTTP requests to the bus and the producer service.
// The bus is injected, never global, so tests own the full lifecycle.
type Server struct {
	log     *slog.Logger
	bus     *runtime.EventBus
	service *services.NotifyService
	monitor *observability.Monitor
}

func NewServer(log *slog.Logger, bus *runtime.EventBus, service *services.NotifyService, monitor *observability.Monitor) *Server {
	return &Server{log: log, bus: bus, service: service, monitor: monitor}
}

// Routes wires all application endpoints into a ServeMux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /message", s.handlePostMessage)
	mux.HandleFunc("GET /events", s.handleStream)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// NewHTTPServer applies production defaults around handler.
// WriteTimeout stays zero: the event stream holds responses open
// indefinitely, so write deadlines would sever healthy connections.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
