package vizserver

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	watcherBuffer = 8
	writeTimeout  = 5 * time.Second
)

// watcher is one connected viewer. Messages are queued on send and
// written by a dedicated goroutine.
type watcher struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
}

// hub fans frames out to watchers. Publishing never blocks: a watcher
// whose queue is full misses the frame.
type hub struct {
	mu       sync.Mutex
	watchers map[uint64]*watcher
	nextID   uint64
	frames   uint64
	dropped  uint64
}

func newHub() *hub {
	return &hub{watchers: make(map[uint64]*watcher)}
}

func (h *hub) add(conn *websocket.Conn, first []byte) *watcher {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	w := &watcher{id: h.nextID, conn: conn, send: make(chan []byte, watcherBuffer)}
	if first != nil {
		w.send <- first
	}
	h.watchers[w.id] = w
	return w
}

// remove unregisters w and closes its queue. Safe to call twice.
func (h *hub) remove(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.watchers[w.id]; !ok {
		return
	}
	delete(h.watchers, w.id)
	close(w.send)
}

func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames++
	for _, w := range h.watchers {
		select {
		case w.send <- msg:
		default:
			h.dropped++
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// closeAll disconnects every watcher.
func (h *hub) closeAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.watchers))
	for _, w := range h.watchers {
		conns = append(conns, w.conn)
	}
	h.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}

// writeLoop drains the queue until remove closes it.
func (w *watcher) writeLoop() {
	for msg := range w.send {
		w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("viz write failed", "watcher", w.id, "error", err)
			w.conn.Close()
			for range w.send {
			}
			return
		}
	}
}
