package entity

import (
	"time"

	"gorm.io/gorm"
)

type Reservation struct {
	gorm.Model
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	Status        string    `gorm:"default:pending" json:"status"`
	Note          string    `json:"note"`

	TotalAmount int64 `json:"total_amount"`

	PaymentMethod          string          `json:"payment_method"`
	PaymentStatus          string          `json:"payment_status"`
	PaymentID              string          `gorm:"index" json:"payment_id"`
	PaymentConfirmationURL string          `json:"payment_confirmation_url"`
	PaymentReceiptURL      string          `json:"payment_receipt_url"`
	PaymentMetadata        PaymentMetadata `gorm:"serializer:json" json:"payment_metadata"`

	TableID uint  `json:"table_id"`
	Table   Table `json:"-"`

	ReservationItems []ReservationItem `json:"-"`
	Orders           []Order           `json:"-"` // orders placed against this booking
}
