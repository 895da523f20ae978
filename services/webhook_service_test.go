package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWebhookService(db *gorm.DB) *WebhookService {
	return NewWebhookService(db,
		repository.NewOrderRepository(db),
		repository.NewReservationRepository(db))
}

func TestMapPaymentStatus(t *testing.T) {
	cases := map[string]string{
		"succeeded":           entity.PaymentStatusSucceeded,
		"pending":             entity.PaymentStatusPending,
		"waiting_for_capture": entity.PaymentStatusPending,
		"waiting_for_payment": entity.PaymentStatusPending,
		"canceled":            entity.PaymentStatusCanceled,
		"refunded":            entity.PaymentStatusRefunded,
		"something_new":       entity.PaymentStatusPending,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapPaymentStatus(in), "status %q", in)
	}
}

func paymentEvent(event string, object map[string]any) *WebhookEvent {
	raw, _ := json.Marshal(object)
	return &WebhookEvent{Event: event, Object: raw}
}

func TestWebhookSucceededCardOrderStartsPreparing(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := entity.Order{
		OrderType:     entity.OrderTypeTakeaway,
		Status:        entity.OrderStatusPending,
		PaymentMethod: entity.PaymentMethodCard,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentID:     "pay-1",
	}
	require.NoError(t, db.Create(&order).Error)

	event := paymentEvent("payment.succeeded", map[string]any{
		"id":             "pay-1",
		"status":         "succeeded",
		"payment_method": map[string]any{"type": "bank_card"},
		"receipt":        map[string]any{"registration_url": "https://receipts.example/1"},
		"metadata":       map[string]any{"type": "order", "order_id": fmt.Sprint(order.ID)},
	})
	require.NoError(t, svc.Process(event))

	var saved entity.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, entity.PaymentStatusSucceeded, saved.PaymentStatus)
	assert.Equal(t, entity.OrderStatusPreparing, saved.Status)
	assert.Equal(t, "https://receipts.example/1", saved.PaymentReceiptURL)
	require.NotNil(t, saved.PaymentMetadata.YooKassa.LastEvent)
	assert.Equal(t, "payment.succeeded", saved.PaymentMetadata.YooKassa.LastEvent.Event)
	assert.NotEmpty(t, saved.PaymentMetadata.YooKassa.LastPayment)

	// Redelivery changes nothing and does not error.
	require.NoError(t, svc.Process(event))
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, entity.OrderStatusPreparing, saved.Status)
}

func TestWebhookSucceededDoesNotAdvancePastPending(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := entity.Order{
		OrderType:     entity.OrderTypeTakeaway,
		Status:        entity.OrderStatusReady,
		PaymentMethod: entity.PaymentMethodCard,
		PaymentStatus: entity.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, svc.Process(paymentEvent("payment.succeeded", map[string]any{
		"id":             "pay-2",
		"status":         "succeeded",
		"payment_method": map[string]any{"type": "bank_card"},
		"metadata":       map[string]any{"order_id": fmt.Sprint(order.ID)},
	})))

	var saved entity.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	// Payment status recorded, kitchen status untouched.
	assert.Equal(t, entity.PaymentStatusSucceeded, saved.PaymentStatus)
	assert.Equal(t, entity.OrderStatusReady, saved.Status)
}

func TestWebhookCanceledOrderCancels(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := entity.Order{
		OrderType:     entity.OrderTypeTakeaway,
		Status:        entity.OrderStatusPreparing,
		PaymentMethod: entity.PaymentMethodCard,
		PaymentStatus: entity.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, svc.Process(paymentEvent("payment.canceled", map[string]any{
		"id":       "pay-3",
		"status":   "canceled",
		"metadata": map[string]any{"order_id": float64(order.ID)}, // numeric id still routes
	})))

	var saved entity.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, entity.PaymentStatusCanceled, saved.PaymentStatus)
	assert.Equal(t, entity.OrderStatusCancelled, saved.Status)
}

func TestWebhookReservationLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)

	res := entity.Reservation{
		CustomerName:  "Saule",
		StartAt:       at(18),
		EndAt:         at(20),
		Status:        entity.ReservationStatusPending,
		PaymentMethod: entity.PaymentMethodCard,
		PaymentStatus: entity.PaymentStatusPending,
		TableID:       seedTable(t, db, "T1").ID,
	}
	require.NoError(t, db.Create(&res).Error)

	require.NoError(t, svc.Process(paymentEvent("payment.succeeded", map[string]any{
		"id":             "pay-res",
		"status":         "succeeded",
		"payment_method": map[string]any{"type": "bank_card"},
		"confirmation":   map[string]any{"confirmation_url": "https://pay.example/done"},
		"metadata": map[string]any{
			"type":           "reservation_preorder",
			"reservation_id": fmt.Sprint(res.ID),
		},
	})))

	var saved entity.Reservation
	require.NoError(t, db.First(&saved, res.ID).Error)
	assert.Equal(t, entity.ReservationStatusConfirmed, saved.Status)
	assert.Equal(t, entity.PaymentStatusSucceeded, saved.PaymentStatus)
	assert.Equal(t, "pay-res", saved.PaymentID)

	// Later cancellation releases the slot back to pending.
	require.NoError(t, svc.Process(paymentEvent("payment.canceled", map[string]any{
		"id":     "pay-res",
		"status": "canceled",
		"metadata": map[string]any{
			"type":           "reservation_preorder",
			"reservation_id": fmt.Sprint(res.ID),
		},
	})))
	require.NoError(t, db.First(&saved, res.ID).Error)
	assert.Equal(t, entity.ReservationStatusPending, saved.Status)
	assert.Equal(t, entity.PaymentStatusCanceled, saved.PaymentStatus)
}

func TestWebhookUnknownTargetRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)

	var nfe *NotFoundError
	err := svc.Process(paymentEvent("payment.succeeded", map[string]any{
		"id":       "pay-x",
		"status":   "succeeded",
		"metadata": map[string]any{"order_id": "424242"},
	}))
	assert.ErrorAs(t, err, &nfe)
}

func TestWebhookMalformedEvents(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)

	var ve ValidationError
	assert.ErrorAs(t, svc.Process(nil), &ve)
	assert.ErrorAs(t, svc.Process(&WebhookEvent{Event: "payment.succeeded"}), &ve)
	assert.ErrorAs(t, svc.Process(&WebhookEvent{
		Event:  "payment.succeeded",
		Object: json.RawMessage(`{"id":"pay-1","status":"succeeded","metadata":{}}`),
	}), &ve)
	assert.ErrorAs(t, svc.Process(&WebhookEvent{
		Event:  "payment.succeeded",
		Object: json.RawMessage(`not json`),
	}), &ve)
}

func TestLookupByPaymentID(t *testing.T) {
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := entity.Order{
		OrderType:     entity.OrderTypeTakeaway,
		Status:        entity.OrderStatusPending,
		PaymentMethod: entity.PaymentMethodCard,
		PaymentID:     "pay-order",
	}
	require.NoError(t, db.Create(&order).Error)

	res := entity.Reservation{
		CustomerName: "Saule",
		StartAt:      at(18),
		EndAt:        at(20),
		PaymentID:    "pay-res",
		TableID:      seedTable(t, db, "T1").ID,
	}
	require.NoError(t, db.Create(&res).Error)

	got, err := svc.LookupByPaymentID("pay-order")
	require.NoError(t, err)
	assert.Equal(t, "order", got.EntityType)
	require.NotNil(t, got.Order)
	assert.Equal(t, order.ID, got.Order.ID)

	got, err = svc.LookupByPaymentID("pay-res")
	require.NoError(t, err)
	assert.Equal(t, "reservation", got.EntityType)
	require.NotNil(t, got.Reservation)

	var nfe *NotFoundError
	_, err = svc.LookupByPaymentID("pay-missing")
	assert.ErrorAs(t, err, &nfe)
}
