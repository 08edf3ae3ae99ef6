package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token-based auth happens before the upgrade; origin checks belong to
	// the reverse proxy in this deployment.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans domain events out to websocket subscribers. Clients subscribe to a
// single tournament; a slow client gets dropped rather than backpressuring the
// rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*client]struct{}
	logger  *slog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan tournament_out.Event
}

const clientBuffer = 16

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
		logger:  logger,
	}
}

// Publish implements the event publisher port so the hub can sit next to the
// broker publisher behind a fanout.
func (h *Hub) Publish(ctx context.Context, event tournament_out.Event) error {
	h.mu.RLock()
	subscribers := h.clients[event.TournamentID]
	dropped := make([]*client, 0)
	for c := range subscribers {
		select {
		case c.send <- event:
		default:
			dropped = append(dropped, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dropped {
		h.logger.WarnContext(ctx, "dropping slow websocket client", "tournament_id", event.TournamentID)
		h.remove(event.TournamentID, c)
	}
	return nil
}

// Subscribe upgrades the request and streams the tournament's events until the
// client disconnects.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, tournamentID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan tournament_out.Event, clientBuffer)}
	h.mu.Lock()
	if h.clients[tournamentID] == nil {
		h.clients[tournamentID] = make(map[*client]struct{})
	}
	h.clients[tournamentID][c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(tournamentID, c)
	h.readLoop(tournamentID, c)
}

// readLoop discards inbound frames; it exists to detect disconnects.
func (h *Hub) readLoop(tournamentID uuid.UUID, c *client) {
	defer h.remove(tournamentID, c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(tournamentID uuid.UUID, c *client) {
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			h.remove(tournamentID, c)
			return
		}
	}
}

func (h *Hub) remove(tournamentID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subscribers, ok := h.clients[tournamentID]
	if !ok {
		return
	}
	if _, ok := subscribers[c]; !ok {
		return
	}
	delete(subscribers, c)
	if len(subscribers) == 0 {
		delete(h.clients, tournamentID)
	}
	close(c.send)
	_ = c.conn.Close()
}

var _ tournament_out.EventPublisher = (*Hub)(nil)
