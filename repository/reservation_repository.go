package repository

import (
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"gorm.io/gorm"
)

type ReservationRepository struct {
	DB *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

func (r *ReservationRepository) CreateReservation(tx *gorm.DB, res *entity.Reservation) error {
	return tx.Create(res).Error
}

func (r *ReservationRepository) GetReservation(reservationID uint) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := r.DB.First(&res, reservationID).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) ListReservations() ([]entity.Reservation, error) {
	var out []entity.Reservation
	err := r.DB.Preload("Table").Order("start_at DESC").Find(&out).Error
	return out, err
}

func (r *ReservationRepository) GetByPaymentID(paymentID string) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := r.DB.Where("payment_id = ?", paymentID).First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// CountOverlapping counts bookings that would collide with [start, end) on a
// table. Cancelled reservations never block; excludeID skips the booking
// being edited.
func (r *ReservationRepository) CountOverlapping(db *gorm.DB, tableID uint, start, end time.Time, excludeID uint) (int64, error) {
	q := db.Model(&entity.Reservation{}).
		Where("table_id = ? AND status IN ?", tableID,
			[]string{entity.ReservationStatusPending, entity.ReservationStatusConfirmed}).
		Where("NOT (end_at <= ? OR start_at >= ?)", start, end)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt, err
}

func (r *ReservationRepository) UpdateReservation(tx *gorm.DB, reservationID uint, fields *entity.Reservation) (int64, error) {
	res := tx.Model(&entity.Reservation{}).Where("id = ?", reservationID).Updates(fields)
	return res.RowsAffected, res.Error
}

// UpdateReservationFields is the map-based variant for admin edits, where
// zero values must still be written.
func (r *ReservationRepository) UpdateReservationFields(tx *gorm.DB, reservationID uint, fields map[string]any) (int64, error) {
	res := tx.Model(&entity.Reservation{}).Where("id = ?", reservationID).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *ReservationRepository) UpdateTotal(tx *gorm.DB, reservationID uint, total int64) error {
	return tx.Model(&entity.Reservation{}).
		Where("id = ?", reservationID).
		Update("total_amount", total).Error
}

func (r *ReservationRepository) UpdateStatus(reservationID uint, status string) (int64, error) {
	res := r.DB.Model(&entity.Reservation{}).
		Where("id = ?", reservationID).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// UpdateStatusGuard applies a transition only from the given statuses, same
// guard shape as orders.
func (r *ReservationRepository) UpdateStatusGuard(tx *gorm.DB, reservationID uint, from []string, to string) (int64, error) {
	res := tx.Model(&entity.Reservation{}).
		Where("id = ? AND status IN ?", reservationID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *ReservationRepository) DeleteReservation(tx *gorm.DB, reservationID uint) (int64, error) {
	res := tx.Unscoped().Delete(&entity.Reservation{}, reservationID)
	return res.RowsAffected, res.Error
}

// ---------------- Reservation items ----------------

func (r *ReservationRepository) CreateReservationItem(tx *gorm.DB, ri *entity.ReservationItem) error {
	return tx.Create(ri).Error
}

func (r *ReservationRepository) GetReservationItems(reservationID uint) ([]entity.ReservationItem, error) {
	var items []entity.ReservationItem
	err := r.DB.Where("reservation_id = ?", reservationID).Order("id ASC").Find(&items).Error
	return items, err
}

// DeleteItems drops the whole pre-order so an update can replace it wholesale.
func (r *ReservationRepository) DeleteItems(tx *gorm.DB, reservationID uint) error {
	return tx.Unscoped().
		Where("reservation_id = ?", reservationID).
		Delete(&entity.ReservationItem{}).Error
}

// CountActiveForTable counts bookings that still hold the table.
func (r *ReservationRepository) CountActiveForTable(tableID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.Reservation{}).
		Where("table_id = ? AND status IN ?", tableID,
			[]string{entity.ReservationStatusPending, entity.ReservationStatusConfirmed}).
		Count(&cnt).Error
	return cnt, err
}
