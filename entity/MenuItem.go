package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	CategoryID uint     `json:"category_id"`
	Category   Category `json:"-"` // preload only for the public menu

	OrderItems       []OrderItem       `json:"-"`
	ReservationItems []ReservationItem `json:"-"`
}
