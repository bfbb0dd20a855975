package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"penjahit-backend/config"
	"penjahit-backend/models"
	"penjahit-backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Username: "kasir", Password: "rahasia", FullName: "Kasir Satu"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedGarment(t *testing.T, db *gorm.DB, name string) models.GarmentType {
	t.Helper()
	g, err := NewGarmentService(db).Create(context.Background(), GarmentInput{Name: name})
	require.NoError(t, err)
	return *g
}

func seedCustomer(t *testing.T, db *gorm.DB, name, phone string) models.Customer {
	t.Helper()
	c, err := NewCustomerService(db).Create(context.Background(), CustomerInput{
		FullName: name,
		Gender:   models.GenderMale,
		Phone:    phone,
	})
	require.NoError(t, err)
	return *c
}

func date(t time.Time) *utils.Date {
	return &utils.Date{Time: t}
}

// fixture is a database with one user, one customer (P0001) and one garment
// type (JP001).
type fixture struct {
	db       *gorm.DB
	user     models.User
	customer models.Customer
	garment  models.GarmentType
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := newTestDB(t)
	return fixture{
		db:       db,
		user:     seedUser(t, db),
		customer: seedCustomer(t, db, "Budi Santoso", "081234567890"),
		garment:  seedGarment(t, db, "Kemeja Pria"),
	}
}

// createOrder places an order for qty pieces at price with the given DP.
func (f fixture) createOrder(t *testing.T, qty int, price, dp int64) *models.Order {
	t.Helper()
	order, err := NewOrderService(f.db, nil, nil).Create(context.Background(), f.user.ID, CreateOrderInput{
		CustomerID:   f.customer.ID,
		PromisedDate: date(time.Now().AddDate(0, 0, 7)),
		DownPayment:  dp,
		Lines: []OrderLineInput{{
			GarmentTypeID: f.garment.ID,
			ItemName:      "Kemeja batik",
			Quantity:      qty,
			UnitPrice:     price,
		}},
	})
	require.NoError(t, err)
	return order
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
