package monitor

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Config configures the standalone dashboard streaming server.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default monitor server configuration.
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		Address: "0.0.0.0",
		Port:    9091,
		Path:    "/ws/permutations",
	}
}

// HTTPServer hosts a Server's websocket endpoint. It is the HTTP transport
// half of Server; Start also runs Server.Run in its own goroutine to drive
// the register/unregister/broadcast loop.
type HTTPServer struct {
	httpServer *http.Server
	stream     *Server
	addr       string
}

// NewHTTPServer builds an HTTPServer that exposes stream over config.Path.
func NewHTTPServer(config Config, stream *Server) *HTTPServer {
	addr := fmt.Sprintf("%s:%d", config.Address, config.Port)

	mux := http.NewServeMux()
	mux.HandleFunc(config.Path, stream.ServeHTTP)

	return &HTTPServer{
		httpServer: &http.Server{Addr: addr, Handler: mux},
		stream:     stream,
		addr:       addr,
	}
}

// Start runs both the websocket HTTP listener and the Server's
// register/broadcast loop until ctx is cancelled.
func (h *HTTPServer) Start(ctx context.Context) error {
	log.Printf("starting permutation monitor on %s", h.addr)

	done := make(chan struct{})
	go h.stream.Run(done)

	go func() {
		<-ctx.Done()
		log.Println("shutting down permutation monitor")
		close(done)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down permutation monitor: %v", err)
		}
	}()

	err := h.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the HTTP listener down.
func (h *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.httpServer.Shutdown(ctx)
}

// Address returns the server's bind address.
func (h *HTTPServer) Address() string {
	return h.addr
}
