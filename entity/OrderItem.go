package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // snapshot at order time, menu edits don't touch it
	ItemComment string `json:"item_comment"`

	OrderID uint  `json:"order_id"`
	Order   Order `json:"-"`

	MenuItemID uint     `json:"menu_item_id"`
	MenuItem   MenuItem `json:"-"` // preload only when the name is needed
}
