package services

import (
	"context"
	"errors"
	"testing"

	"github.com/eichdmk/qrMenu/configs"
	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/pkg/yookassa"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := configs.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, configs.Migrate(db))
	return db
}

func seedTable(t *testing.T, db *gorm.DB, name string) entity.Table {
	t.Helper()
	table := entity.Table{Name: name, Token: "tok-" + name, Seats: 4}
	require.NoError(t, db.Create(&table).Error)
	return table
}

// seedMenu creates one category with two priced items: 500 and 300 kopecks
// are arbitrary but referenced by totals in several tests.
func seedMenu(t *testing.T, db *gorm.DB) []entity.MenuItem {
	t.Helper()
	cat := entity.Category{Name: "Mains", Position: 1}
	require.NoError(t, db.Create(&cat).Error)

	items := []entity.MenuItem{
		{Name: "Plov", Price: 500, IsAvailable: true, CategoryID: cat.ID},
		{Name: "Lagman", Price: 300, IsAvailable: true, CategoryID: cat.ID},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return items
}

// stubGateway satisfies PaymentGateway without network.
type stubGateway struct {
	configured bool
	createFn   func(ctx context.Context, req *yookassa.CreatePaymentRequest) (*yookassa.Payment, error)
}

func (g *stubGateway) IsConfigured() bool { return g.configured }

func (g *stubGateway) CreatePayment(ctx context.Context, req *yookassa.CreatePaymentRequest) (*yookassa.Payment, error) {
	if g.createFn != nil {
		return g.createFn(ctx, req)
	}
	return nil, errors.New("no create stub")
}

func (g *stubGateway) GetPayment(ctx context.Context, id string) (*yookassa.Payment, error) {
	return nil, errors.New("no get stub")
}
