package entity

import (
	"gorm.io/gorm"
)

type Table struct {
	gorm.Model
	Name       string `json:"name"`
	Token      string `gorm:"size:64;uniqueIndex" json:"token"` // QR code target
	Seats      int    `json:"seats"`
	IsOccupied bool   `json:"is_occupied"`

	Orders       []Order       `json:"-"`
	Reservations []Reservation `json:"-"`
}
