package services

import (
	"log"
	"time"

	"github.com/eichdmk/qrMenu/repository"
	"gorm.io/gorm"
)

// CleanupService deletes orders past a retention age, cascading to their
// line items. Runs on a daily timer and on explicit admin request.
type CleanupService struct {
	DB   *gorm.DB
	Repo *repository.OrderRepository
}

func NewCleanupService(db *gorm.DB, repo *repository.OrderRepository) *CleanupService {
	return &CleanupService{DB: db, Repo: repo}
}

type CleanupResult struct {
	DeletedOrders int64 `json:"deleted_orders"`
	DeletedItems  int64 `json:"deleted_items"`
}

// Cleanup deletes all orders created more than maxAgeDays ago. Deleting
// nothing is success.
func (s *CleanupService) Cleanup(maxAgeDays int) (*CleanupResult, error) {
	if maxAgeDays <= 0 {
		return nil, ValidationError("max age must be positive")
	}
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	var out CleanupResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ids, err := s.Repo.OrderIDsBefore(tx, cutoff)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		items, err := s.Repo.DeleteItemsByOrderIDs(tx, ids)
		if err != nil {
			return err
		}
		orders, err := s.Repo.DeleteOrdersByIDs(tx, ids)
		if err != nil {
			return err
		}

		out = CleanupResult{DeletedOrders: orders, DeletedItems: items}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[cleanup] deleted %d orders and %d items older than %d days",
		out.DeletedOrders, out.DeletedItems, maxAgeDays)
	return &out, nil
}

// StartDaily runs Cleanup once a day until the returned stop func is called.
// A failed run is logged and retried on the next tick.
func (s *CleanupService) StartDaily(maxAgeDays int) (stop func()) {
	ticker := time.NewTicker(24 * time.Hour)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.Cleanup(maxAgeDays); err != nil {
					log.Printf("[cleanup] scheduled run failed: %v", err)
				}
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}
