package monitor

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// PermutationEvent is a single message broadcast to connected dashboard
// clients as a permutation run progresses.
type PermutationEvent struct {
	Type        string    `json:"type"` // "baseline", "permuted", "completed"
	Strategy    string    `json:"strategy"`
	PermIndex   int       `json:"perm_index,omitempty"`
	Value       string    `json:"value"`
	Timestamp   time.Time `json:"timestamp"`
}

// Server streams PermutationEvents to any number of connected WebSocket
// clients. Collector (collector.go) wraps a Server as a
// correction.PermutationStatisticsCollector so it can be attached to a
// PALMastersMonteCarloValidation run.
type Server struct {
	clients    map[*client]bool
	broadcast  chan PermutationEvent
	register   chan *client
	unregister chan *client
	mu         sync.Mutex
	upgrader   websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a new permutation-progress streaming server.
func NewServer() *Server {
	return &Server{
		clients:    make(map[*client]bool),
		broadcast:  make(chan PermutationEvent, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and registers a new client.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: failed to upgrade to websocket: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 256)}
	s.register <- c

	go s.writePump(c)
	go s.readPump(c)
}

// Run drives the server's registration/broadcast loop until done is
// closed. HTTPServer.Start runs it in its own goroutine.
func (s *Server) Run(done <-chan struct{}) {
	for {
		select {
		case c := <-s.register:
			s.mu.Lock()
			s.clients[c] = true
			s.mu.Unlock()

		case c := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
			}
			s.mu.Unlock()

		case event := <-s.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("monitor: failed to marshal event: %v", err)
				continue
			}
			s.mu.Lock()
			for c := range s.clients {
				select {
				case c.send <- data:
				default:
					close(c.send)
					delete(s.clients, c)
				}
			}
			s.mu.Unlock()

		case <-done:
			s.Close()
			return
		}
	}
}

// Close terminates every connected client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.conn.Close()
	}
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
