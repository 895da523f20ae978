package configs

import (
	"github.com/eichdmk/qrMenu/entity"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func Open(driver, source string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(source), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(source), &gorm.Config{})
	}
}

func ConnectionDB(cfg *Config) {
	database, err := Open(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Admin{},
		&entity.Category{}, &entity.MenuItem{},
		&entity.Table{},
		&entity.Reservation{}, &entity.ReservationItem{},
		&entity.Order{}, &entity.OrderItem{},
	)
}

func SetupDatabase() {
	if err := Migrate(db); err != nil {
		panic(err)
	}
}
