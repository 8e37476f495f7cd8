package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig configures the standalone metrics HTTP server.
type ServerConfig struct {
	Enabled bool          `yaml:"enabled"`
	Address string        `yaml:"address"`
	Port    int           `yaml:"port"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultServerConfig returns default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Enabled: true,
		Address: "0.0.0.0",
		Port:    9090,
		Path:    "/metrics",
		Timeout: 30 * time.Second,
	}
}

// Server serves a Metrics registry over HTTP, alongside health and
// readiness probes for process supervisors.
type Server struct {
	server   *http.Server
	registry *prometheus.Registry
	addr     string
}

// NewServer creates a new metrics HTTP server.
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	addr := fmt.Sprintf("%s:%d", config.Address, config.Port)

	mux := http.NewServeMux()
	mux.Handle(config.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  config.Timeout,
		WriteTimeout: config.Timeout,
		IdleTimeout:  config.Timeout,
	}

	return &Server{server: server, registry: metrics.GetRegistry(), addr: addr}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	log.Printf("starting metrics server on %s", s.addr)

	go func() {
		<-ctx.Done()
		log.Println("shutting down metrics server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down metrics server: %v", err)
		}
	}()

	return s.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// GetAddress returns the server's bind address.
func (s *Server) GetAddress() string {
	return s.addr
}

// GetRegistry returns the Prometheus registry backing the server.
func (s *Server) GetRegistry() *prometheus.Registry {
	return s.registry
}
