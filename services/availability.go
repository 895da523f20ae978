package services

import (
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/repository"
	"gorm.io/gorm"
)

// Availability reason codes, in the priority order they are checked.
const (
	ReasonOccupied     = "occupied"
	ReasonActiveOrders = "active_orders"
	ReasonReserved     = "reserved"
	ReasonAvailable    = "available"
)

// AvailabilityService answers whether a table can take a booking. It never
// mutates state; callers run it inside their own transaction before any
// insert.
type AvailabilityService struct {
	OrderRepo       *repository.OrderRepository
	ReservationRepo *repository.ReservationRepository

	// Orders placed inside this window before the requested start still
	// count as holding the table (guards against double-seating
	// mid-service).
	OrderLookback time.Duration
}

func NewAvailabilityService(
	orderRepo *repository.OrderRepository,
	reservationRepo *repository.ReservationRepository,
	orderLookback time.Duration,
) *AvailabilityService {
	return &AvailabilityService{
		OrderRepo:       orderRepo,
		ReservationRepo: reservationRepo,
		OrderLookback:   orderLookback,
	}
}

// CheckTable decides whether the table can be booked for [start, end).
// excludeReservationID skips the booking being edited in the overlap query.
// db is the caller's transaction so the answer and the following insert see
// the same snapshot.
func (s *AvailabilityService) CheckTable(db *gorm.DB, table *entity.Table, start, end time.Time, excludeReservationID uint) (bool, string, error) {
	if table.IsOccupied {
		return false, ReasonOccupied, nil
	}

	since := start.Add(-s.OrderLookback)
	active, err := s.OrderRepo.CountActiveForTable(db, table.ID, &since)
	if err != nil {
		return false, "", err
	}
	if active > 0 {
		return false, ReasonActiveOrders, nil
	}

	overlapping, err := s.ReservationRepo.CountOverlapping(db, table.ID, start, end, excludeReservationID)
	if err != nil {
		return false, "", err
	}
	if overlapping > 0 {
		return false, ReasonReserved, nil
	}

	return true, ReasonAvailable, nil
}

// HasActiveOrders reports whether any order still holds the table,
// regardless of age.
func (s *AvailabilityService) HasActiveOrders(tableID uint) (bool, error) {
	cnt, err := s.OrderRepo.CountActiveForTable(s.OrderRepo.DB, tableID, nil)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
