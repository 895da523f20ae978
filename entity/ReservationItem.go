package entity

import (
	"gorm.io/gorm"
)

type ReservationItem struct {
	gorm.Model
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // snapshot taken when the pre-order is placed
	ItemComment string `json:"item_comment"`

	ReservationID uint        `json:"reservation_id"`
	Reservation   Reservation `json:"-"`

	MenuItemID uint     `json:"menu_item_id"`
	MenuItem   MenuItem `json:"-"`
}
