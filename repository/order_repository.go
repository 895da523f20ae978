package repository

import (
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns a page of orders (newest first) plus the total count
// for pagination.
func (r *OrderRepository) ListOrders(limit, offset int) ([]entity.Order, int64, error) {
	var total int64
	if err := r.DB.Model(&entity.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []entity.Order
	err := r.DB.Preload("Table").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

// ListOrdersAfter returns orders with id above the watermark, oldest first,
// so the broadcaster can advance to the last element.
func (r *OrderRepository) ListOrdersAfter(id uint) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.DB.Where("id > ?", id).Order("id ASC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) MaxOrderID() (uint, error) {
	var row struct{ ID uint }
	err := r.DB.Model(&entity.Order{}).Select("COALESCE(MAX(id), 0) AS id").Scan(&row).Error
	return row.ID, err
}

func (r *OrderRepository) GetByPaymentID(paymentID string) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("payment_id = ?", paymentID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus is the unconditional admin transition. completed additionally
// stamps completed_at.
func (r *OrderRepository) UpdateStatus(orderID uint, status string) (int64, error) {
	updates := map[string]any{"status": status}
	if status == entity.OrderStatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}
	res := r.DB.Model(&entity.Order{}).Where("id = ?", orderID).Updates(updates)
	return res.RowsAffected, res.Error
}

// UpdateStatusGuard moves status only when the current one is in from.
// Re-applying the same transition is a no-op, which keeps webhook
// redelivery safe.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from []string, to string) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) UpdateOrderPayment(tx *gorm.DB, orderID uint, fields *entity.Order) (int64, error) {
	res := tx.Model(&entity.Order{}).Where("id = ?", orderID).Updates(fields)
	return res.RowsAffected, res.Error
}

// ---------------- Order items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	return items, err
}

// ItemsForOrders fetches line items for a batch of orders in one query.
func (r *OrderRepository) ItemsForOrders(orderIDs []uint) ([]entity.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var items []entity.OrderItem
	err := r.DB.Where("order_id IN ?", orderIDs).Order("id ASC").Find(&items).Error
	return items, err
}

// ---------------- Availability / guards ----------------

// CountActiveForTable counts orders on a table whose status still blocks it.
// since limits the check to recently placed orders; nil means no limit.
func (r *OrderRepository) CountActiveForTable(db *gorm.DB, tableID uint, since *time.Time) (int64, error) {
	q := db.Model(&entity.Order{}).
		Where("table_id = ? AND status NOT IN ?", tableID,
			[]string{entity.OrderStatusCompleted, entity.OrderStatusCancelled})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt, err
}

func (r *OrderRepository) CountForReservation(reservationID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.Order{}).
		Where("reservation_id = ?", reservationID).
		Count(&cnt).Error
	return cnt, err
}

// ---------------- Retention ----------------

func (r *OrderRepository) OrderIDsBefore(tx *gorm.DB, cutoff time.Time) ([]uint, error) {
	var ids []uint
	err := tx.Model(&entity.Order{}).
		Where("created_at < ?", cutoff).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *OrderRepository) DeleteItemsByOrderIDs(tx *gorm.DB, orderIDs []uint) (int64, error) {
	res := tx.Unscoped().Where("order_id IN ?", orderIDs).Delete(&entity.OrderItem{})
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) DeleteOrdersByIDs(tx *gorm.DB, orderIDs []uint) (int64, error) {
	res := tx.Unscoped().Where("id IN ?", orderIDs).Delete(&entity.Order{})
	return res.RowsAffected, res.Error
}
