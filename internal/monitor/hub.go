// Package monitor serves live run statistics over HTTP and streams released
// hands to websocket clients.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/internal/statistics"
)

// Message is what websocket clients receive.
type Message struct {
	Type string           `json:"type"`
	Hand game.HandSummary `json:"hand"`
}

// Stats is the /stats response.
type Stats struct {
	RunID         string              `json:"run_id,omitempty"`
	UptimeSeconds float64             `json:"uptime_seconds"`
	Hands         int                 `json:"hands"`
	Clients       int                 `json:"clients"`
	Seats         []statistics.SeatEV `json:"seats"`
	LastHand      *game.HandSummary   `json:"last_hand,omitempty"`
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithClock sets the clock used for uptime and pings.
func WithClock(clock quartz.Clock) Option {
	return func(h *Hub) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithRunID labels /stats with the run id.
func WithRunID(id string) Option {
	return func(h *Hub) { h.runID = id }
}

// WithWindow sets the rolling EV window.
func WithWindow(n int) Option {
	return func(h *Hub) { h.window = n }
}

// Hub observes released hands. It implements runner.Observer.
type Hub struct {
	logger   *log.Logger
	clock    quartz.Clock
	runID    string
	window   int
	upgrader websocket.Upgrader

	ev      *statistics.EVTracker
	started time.Time

	mu      sync.RWMutex
	last    *game.HandSummary
	clients map[*client]struct{}
}

// NewHub builds a hub with no clients.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		logger:  log.New(io.Discard),
		clock:   quartz.NewReal(),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(*http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithPrefix("monitor")
	h.ev = statistics.NewEVTracker(h.window)
	h.started = h.clock.Now()
	return h
}

// ObserveHand records the hand and broadcasts it to every client. Clients
// that cannot keep up are disconnected.
func (h *Hub) ObserveHand(s game.HandSummary) {
	h.ev.ObserveHand(s)

	msg, err := json.Marshal(Message{Type: "hand", Hand: s})
	if err != nil {
		h.logger.Error("encode hand", "hand", s.Sequence, "err", err)
		return
	}

	h.mu.Lock()
	h.last = &s
	var slow []*client
	for c := range h.clients {
		if !c.enqueue(msg) {
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("client send buffer full, closing connection", "remote", c.remote)
		c.close()
	}
}

// Snapshot returns the current /stats document.
func (h *Hub) Snapshot() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	st := Stats{
		RunID:         h.runID,
		UptimeSeconds: h.clock.Since(h.started).Seconds(),
		Hands:         h.ev.Hands(),
		Clients:       len(h.clients),
		Seats:         h.ev.Report(),
	}
	if h.last != nil {
		last := *h.last
		st.LastHand = &last
	}
	return st
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Router returns the HTTP handler: /healthz, /stats and /ws.
func (h *Hub) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.Snapshot())
	})
	r.Get("/ws", h.handleWebSocket)
	return r
}

// Serve listens on addr until ctx is done, then shuts down and disconnects
// every client.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: h.Router(), ReadHeaderTimeout: 10 * time.Second}
	h.logger.Info("monitor listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		h.Close()
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdown)
	h.Close()
	if serr := <-errc; serr != nil && !errors.Is(serr, http.ErrServerClosed) {
		return serr
	}
	return err
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	c := newClient(h, conn)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client connected", "remote", c.remote, "total", total)
	c.start()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client disconnected", "remote", c.remote, "total", total)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
