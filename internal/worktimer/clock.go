// Package worktimer menyimpan timer kerja per pesanan yang digerakkan satu ticker.
package worktimer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type entry struct {
	elapsed int64 // detik
	running bool
}

// Snapshot adalah keadaan timer satu pesanan pada satu saat.
type Snapshot struct {
	OrderID uint64 `json:"order_id"`
	Elapsed int64  `json:"elapsed"`
	Running bool   `json:"running"`
	Display string `json:"display"`
}

// Clock memetakan order id ke timer. Semua timer maju bersama setiap Tick.
type Clock struct {
	mu       sync.Mutex
	entries  map[uint64]*entry
	interval time.Duration
}

func New(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{entries: make(map[uint64]*entry), interval: interval}
}

// Start mendaftarkan timer baru dari 0. false kalau order sudah punya timer.
func (c *Clock) Start(orderID uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[orderID]; ok {
		return false
	}
	c.entries[orderID] = &entry{running: true}
	return true
}

// Resume memulihkan timer dengan elapsed tertentu, misal setelah server restart.
func (c *Clock) Resume(orderID uint64, elapsed int64) {
	if elapsed < 0 {
		elapsed = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[orderID] = &entry{elapsed: elapsed, running: true}
}

// Tick menambah tepat satu detik ke setiap timer yang berjalan.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.running {
			e.elapsed++
		}
	}
}

func (c *Clock) Get(orderID uint64) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[orderID]
	if !ok {
		return Snapshot{}, false
	}
	return snapshot(orderID, e), true
}

// Stop menghapus timer dan mengembalikan keadaan terakhirnya.
func (c *Clock) Stop(orderID uint64) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[orderID]
	if !ok {
		return Snapshot{}, false
	}
	delete(c.entries, orderID)
	return snapshot(orderID, e), true
}

// All mengembalikan snapshot semua timer, urut order id.
func (c *Clock) All() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Snapshot, 0, len(c.entries))
	for id, e := range c.entries {
		out = append(out, snapshot(id, e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

func (c *Clock) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Run menjalankan ticker sampai ctx selesai.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func snapshot(orderID uint64, e *entry) Snapshot {
	return Snapshot{OrderID: orderID, Elapsed: e.elapsed, Running: e.running, Display: Format(e.elapsed)}
}

// Format: 65 -> "00:01:05". Jam tidak dibatasi 24.
func Format(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
