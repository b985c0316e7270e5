package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"smartcare-backend/internal/logger"
)

// Event adalah amplop pesan yang dikirim ke klien websocket.
type Event struct {
	Type string      `json:"type"`
	Room string      `json:"room_id"`
	Data interface{} `json:"data"`
}

// Hub menyimpan koneksi websocket per room.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	done       chan struct{}
}

type delivery struct {
	room    string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 64),
		done:       make(chan struct{}),
	}
}

// Run menjalankan loop hub sampai ctx selesai.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case d := <-h.broadcast:
			h.send(d.room, d.payload)
		}
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish mengirim event ke semua klien di room pada instance ini.
func (h *Hub) Publish(_ context.Context, room, eventType string, data interface{}) error {
	raw, err := json.Marshal(Event{Type: eventType, Room: room, Data: data})
	if err != nil {
		return fmt.Errorf("chat: gagal serialisasi event: %w", err)
	}
	h.Deliver(room, raw)
	return nil
}

// Deliver meneruskan payload yang sudah di-encode, dipakai juga oleh relay Redis.
func (h *Hub) Deliver(room string, payload []byte) {
	select {
	case h.broadcast <- delivery{room: room, payload: payload}:
	case <-h.done:
	}
}

// ClientCount jumlah koneksi aktif di room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[c.room]; !ok {
		h.rooms[c.room] = make(map[*Client]struct{})
	}
	h.rooms[c.room][c] = struct{}{}
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[c.room]; ok {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.rooms, c.room)
		}
	}
}

func (h *Hub) send(room string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			// Klien lambat diputus
			logger.Log.WithField("room", room).Warn("chat: buffer klien penuh, koneksi ditutup")
			delete(h.rooms[room], c)
			close(c.send)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, clients := range h.rooms {
		for c := range clients {
			close(c.send)
		}
		delete(h.rooms, room)
	}
}
