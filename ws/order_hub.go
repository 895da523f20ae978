package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// conn is the slice of *websocket.Conn the hub needs; tests plug in fakes.
type conn interface {
	WriteJSON(v any) error
	Close() error
}

// OrderHub pushes newly created orders to connected admin dashboards. It
// polls by id watermark instead of hooking into the write path, so orders
// created by any process show up.
type OrderHub struct {
	repo     *repository.OrderRepository
	interval time.Duration

	mu        sync.Mutex
	clients   map[string]conn
	watermark uint
}

func NewOrderHub(repo *repository.OrderRepository, interval time.Duration) *OrderHub {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &OrderHub{
		repo:     repo,
		interval: interval,
		clients:  make(map[string]conn),
	}
}

type orderPush struct {
	entity.Order
	Items []entity.OrderItem `json:"items"`
}

// Run polls for new orders until Shutdown. Orders existing at startup are
// never replayed: the watermark starts at the current max id.
func (h *OrderHub) Run() {
	maxID, err := h.repo.MaxOrderID()
	if err != nil {
		log.Printf("[ws] initial watermark load failed: %v", err)
	}
	h.mu.Lock()
	h.watermark = maxID
	h.mu.Unlock()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := h.pollOnce(); err != nil {
			log.Printf("[ws] poll failed: %v", err)
		}
	}
}

func (h *OrderHub) pollOnce() error {
	h.mu.Lock()
	after := h.watermark
	h.mu.Unlock()

	orders, err := h.repo.ListOrdersAfter(after)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := h.repo.ItemsForOrders(ids)
	if err != nil {
		return err
	}
	byOrder := make(map[uint][]entity.OrderItem)
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}

	payload := make([]orderPush, 0, len(orders))
	for _, o := range orders {
		payload = append(payload, orderPush{Order: o, Items: byOrder[o.ID]})
	}

	h.mu.Lock()
	if last := orders[len(orders)-1].ID; last > h.watermark {
		h.watermark = last
	}
	h.mu.Unlock()

	h.broadcast(gin.H{"type": "new_order", "orders": payload})
	return nil
}

// broadcast writes to every client; a failed write drops only that client.
func (h *OrderHub) broadcast(msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		if err := c.WriteJSON(msg); err != nil {
			log.Printf("[ws] dropping client %s: %v", id, err)
			c.Close()
			delete(h.clients, id)
		}
	}
}

func (h *OrderHub) addClient(c conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	return id
}

func (h *OrderHub) removeClient(id string) {
	h.mu.Lock()
	if c, ok := h.clients[id]; ok {
		c.Close()
		delete(h.clients, id)
	}
	h.mu.Unlock()
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the peer goes away.
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	// Greet before registering so this write can't race a broadcast.
	id := uuid.NewString()
	if err := wsConn.WriteJSON(gin.H{"type": "connected", "client_id": id}); err != nil {
		wsConn.Close()
		return
	}
	h.mu.Lock()
	h.clients[id] = wsConn
	h.mu.Unlock()

	go func() {
		defer h.removeClient(id)
		for {
			if _, _, err := wsConn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Shutdown closes every connection and empties the registry.
func (h *OrderHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}
