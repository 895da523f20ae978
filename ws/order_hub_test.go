package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/eichdmk/qrMenu/configs"
	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeConn struct {
	msgs   []any
	fail   bool
	closed bool
}

func (f *fakeConn) WriteJSON(v any) error {
	if f.fail {
		return errors.New("broken pipe")
	}
	f.msgs = append(f.msgs, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func newHubDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := configs.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, configs.Migrate(db))
	return db
}

func createOrder(t *testing.T, db *gorm.DB, items int) entity.Order {
	t.Helper()
	order := entity.Order{
		OrderType:     entity.OrderTypeTakeaway,
		Status:        entity.OrderStatusPending,
		PaymentMethod: entity.PaymentMethodCash,
	}
	require.NoError(t, db.Create(&order).Error)
	for i := 0; i < items; i++ {
		require.NoError(t, db.Create(&entity.OrderItem{
			OrderID: order.ID, MenuItemID: 1, Quantity: 1, UnitPrice: 100,
		}).Error)
	}
	return order
}

func TestPollBroadcastsNewOrdersAndAdvancesWatermark(t *testing.T) {
	db := newHubDB(t)
	hub := NewOrderHub(repository.NewOrderRepository(db), time.Second)

	client := &fakeConn{}
	hub.addClient(client)

	first := createOrder(t, db, 2)
	require.NoError(t, hub.pollOnce())

	require.Len(t, client.msgs, 1)
	assert.Equal(t, first.ID, hub.watermark)

	// Nothing new: no broadcast, watermark holds.
	require.NoError(t, hub.pollOnce())
	assert.Len(t, client.msgs, 1)

	second := createOrder(t, db, 1)
	require.NoError(t, hub.pollOnce())
	assert.Len(t, client.msgs, 2)
	assert.Equal(t, second.ID, hub.watermark)
}

func TestPollSkipsOrdersBelowWatermark(t *testing.T) {
	db := newHubDB(t)
	pre := createOrder(t, db, 1)
	hub := NewOrderHub(repository.NewOrderRepository(db), time.Second)

	// Simulate Run's startup snapshot: existing orders are not replayed.
	maxID, err := hub.repo.MaxOrderID()
	require.NoError(t, err)
	assert.Equal(t, pre.ID, maxID)
	hub.watermark = maxID

	client := &fakeConn{}
	hub.addClient(client)
	require.NoError(t, hub.pollOnce())
	assert.Empty(t, client.msgs)
}

func TestBroadcastDropsOnlyDeadClients(t *testing.T) {
	db := newHubDB(t)
	hub := NewOrderHub(repository.NewOrderRepository(db), time.Second)

	alive := &fakeConn{}
	dead := &fakeConn{fail: true}
	hub.addClient(alive)
	deadID := hub.addClient(dead)

	createOrder(t, db, 0)
	require.NoError(t, hub.pollOnce())

	assert.Len(t, alive.msgs, 1)
	assert.True(t, dead.closed)

	hub.mu.Lock()
	_, stillThere := hub.clients[deadID]
	total := len(hub.clients)
	hub.mu.Unlock()
	assert.False(t, stillThere)
	assert.Equal(t, 1, total)
}

func TestShutdownClosesEveryone(t *testing.T) {
	db := newHubDB(t)
	hub := NewOrderHub(repository.NewOrderRepository(db), time.Second)

	a, b := &fakeConn{}, &fakeConn{}
	hub.addClient(a)
	hub.addClient(b)

	hub.Shutdown()
	assert.True(t, a.closed)
	assert.True(t, b.closed)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Empty(t, hub.clients)
}
