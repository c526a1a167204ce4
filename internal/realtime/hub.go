package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/modules/booking"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// ViewSource renders the booking state a connected client sees.
type ViewSource interface {
	CabinStatuses(capacity int) []booking.CabinView
	MyBooking(requesterID string) *booking.MyBookingView
	Queue() []domain.Booking
	SyncErr() error
}

type Message struct {
	Type      string                 `json:"type"`
	Cabins    []booking.CabinView    `json:"cabins"`
	MyBooking *booking.MyBookingView `json:"my_booking"`
	Queue     []domain.Booking       `json:"queue,omitempty"`
	Degraded  bool                   `json:"degraded"`
	SentAt    time.Time              `json:"sent_at"`
}

type client struct {
	actor domain.Actor
	conn  *websocket.Conn
	send  chan []byte
	done  chan struct{}
	once  sync.Once
}

// offer keeps only the newest pending message for a slow client.
func (c *client) offer(msg []byte) {
	select {
	case c.send <- msg:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Hub pushes a fresh view to every connection after each snapshot.
type Hub struct {
	views   ViewSource
	now     func() time.Time
	mutex   sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(views ViewSource) *Hub {
	return &Hub{
		views:   views,
		now:     time.Now,
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	h.push(c)
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	delete(h.clients, c)
	h.mutex.Unlock()
	c.close()
}

func (h *Hub) GetOnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Run broadcasts on every snapshot until updates closes or ctx is done.
func (h *Hub) Run(ctx context.Context, updates <-chan domain.Snapshot) {
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
			h.Broadcast()
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Broadcast() {
	h.mutex.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mutex.RUnlock()

	if len(clients) == 0 {
		return
	}
	cabins := h.views.CabinStatuses(0)
	for _, c := range clients {
		h.pushCabins(c, cabins)
	}
}

func (h *Hub) push(c *client) {
	h.pushCabins(c, h.views.CabinStatuses(0))
}

func (h *Hub) pushCabins(c *client, cabins []booking.CabinView) {
	msg := Message{
		Type:      "snapshot",
		Cabins:    cabins,
		MyBooking: h.views.MyBooking(c.actor.ID),
		Degraded:  h.views.SyncErr() != nil,
		SentAt:    h.now().UTC(),
	}
	if c.actor.IsAdmin() {
		msg.Queue = h.views.Queue()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("realtime_encode_failed user_id=%s error=%q", c.actor.ID, err.Error())
		return
	}
	c.offer(data)
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mutex.Unlock()

	for c := range clients {
		c.close()
	}
}
