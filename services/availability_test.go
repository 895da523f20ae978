package services

import (
	"testing"
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAvailability(db *gorm.DB) *AvailabilityService {
	return NewAvailabilityService(
		repository.NewOrderRepository(db),
		repository.NewReservationRepository(db),
		2*time.Hour)
}

func at(hour int) time.Time {
	return time.Date(2026, 9, 1, hour, 0, 0, 0, time.UTC)
}

func TestCheckTableReservationOverlap(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "T1")
	svc := newAvailability(db)

	booking := entity.Reservation{
		TableID:      table.ID,
		CustomerName: "Saule",
		StartAt:      at(18),
		EndAt:        at(20),
		Status:       entity.ReservationStatusConfirmed,
	}
	require.NoError(t, db.Create(&booking).Error)

	cases := []struct {
		name       string
		start, end time.Time
		ok         bool
	}{
		{"overlaps tail", at(19), at(21), false},
		{"overlaps head", at(17), at(19), false},
		{"contained", at(18), at(19), false},
		{"touches start", at(17), at(18), true}, // half-open windows
		{"touches end", at(20), at(22), true},
		{"far away", at(10), at(12), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason, err := svc.CheckTable(db, &table, tc.start, tc.end, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.Equal(t, ReasonReserved, reason)
			}
		})
	}
}

func TestCheckTableCancelledBookingNeverBlocks(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "T1")
	svc := newAvailability(db)

	booking := entity.Reservation{
		TableID: table.ID,
		StartAt: at(18),
		EndAt:   at(20),
		Status:  entity.ReservationStatusCancelled,
	}
	require.NoError(t, db.Create(&booking).Error)

	ok, reason, err := svc.CheckTable(db, &table, at(18), at(20), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ReasonAvailable, reason)
}

func TestCheckTableExcludeSkipsOwnBooking(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "T1")
	svc := newAvailability(db)

	booking := entity.Reservation{
		TableID: table.ID,
		StartAt: at(18),
		EndAt:   at(20),
		Status:  entity.ReservationStatusPending,
	}
	require.NoError(t, db.Create(&booking).Error)

	ok, _, err := svc.CheckTable(db, &table, at(18), at(20), booking.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckTableOccupiedWinsOverEverything(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "T1")
	table.IsOccupied = true
	require.NoError(t, db.Save(&table).Error)
	svc := newAvailability(db)

	ok, reason, err := svc.CheckTable(db, &table, at(18), at(20), 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ReasonOccupied, reason)
}

func TestCheckTableActiveOrdersInLookbackBlock(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "T1")
	svc := newAvailability(db)

	order := entity.Order{
		OrderType:     entity.OrderTypeDineIn,
		Status:        entity.OrderStatusPreparing,
		PaymentMethod: entity.PaymentMethodCash,
		TableID:       &table.ID,
	}
	require.NoError(t, db.Create(&order).Error)

	// Order was just placed, requested window starts within the lookback.
	start := time.Now().Add(30 * time.Minute)
	ok, reason, err := svc.CheckTable(db, &table, start, start.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ReasonActiveOrders, reason)

	// Completed orders release the table.
	require.NoError(t, db.Model(&order).Update("status", entity.OrderStatusCompleted).Error)
	ok, _, err = svc.CheckTable(db, &table, start, start.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckTableOldOrdersOutsideLookbackIgnored(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "T1")
	svc := newAvailability(db)

	order := entity.Order{
		OrderType:     entity.OrderTypeDineIn,
		Status:        entity.OrderStatusPending,
		PaymentMethod: entity.PaymentMethodCash,
		TableID:       &table.ID,
	}
	require.NoError(t, db.Create(&order).Error)
	stale := time.Now().Add(-5 * time.Hour)
	require.NoError(t, db.Model(&order).Update("created_at", stale).Error)

	start := time.Now()
	ok, _, err := svc.CheckTable(db, &table, start, start.Add(time.Hour), 0)
	require.NoError(t, err)
	assert.True(t, ok)
}
