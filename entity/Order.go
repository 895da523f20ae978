package entity

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	OrderType     string `json:"order_type"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Comment       string `json:"comment"`
	Status        string `gorm:"default:pending" json:"status"`

	TotalAmount     int64  `json:"total_amount"`
	DeliveryAddress string `json:"delivery_address"`
	DeliveryFee     int64  `json:"delivery_fee"`

	PaymentMethod          string          `json:"payment_method"`
	PaymentStatus          string          `json:"payment_status"`
	PaymentID              string          `gorm:"index" json:"payment_id"`
	PaymentConfirmationURL string          `json:"payment_confirmation_url"`
	PaymentReceiptURL      string          `json:"payment_receipt_url"`
	PaymentMetadata        PaymentMetadata `gorm:"serializer:json" json:"payment_metadata"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	TableID *uint  `json:"table_id"`
	Table   *Table `json:"-"` // preload only for admin listings

	ReservationID *uint        `json:"reservation_id"`
	Reservation   *Reservation `json:"-"`

	OrderItems []OrderItem `json:"-"`
}
