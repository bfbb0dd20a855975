package services

import (
	"context"
	"testing"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	first, err := svc.Create(ctx, CustomerInput{
		FullName: "  Siti Aminah ",
		Gender:   models.GenderFemale,
		Phone:    "0812-3456-7890",
		Email:    "siti@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "P0001", first.ID)
	assert.Equal(t, "Siti Aminah", first.FullName)
	assert.Equal(t, "+6281234567890", first.Phone)
	require.NotNil(t, first.Email)
	assert.Nil(t, first.Address)

	second, err := svc.Create(ctx, CustomerInput{FullName: "Budi", Gender: models.GenderMale, Phone: "081298765432"})
	require.NoError(t, err)
	assert.Equal(t, "P0002", second.ID)
}

func TestCustomerService_Create_Duplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()
	existing := seedCustomer(t, db, "Siti Aminah", "081234567890")

	_, err := svc.Create(ctx, CustomerInput{FullName: "siti aminah", Gender: models.GenderFemale, Phone: "0899999999"})
	requireKind(t, err, KindConflict)
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, existing.ID, svcErr.Fields["existingId"])
	assert.Equal(t, "Siti Aminah", svcErr.Fields["existingNama"])

	_, err = svc.Create(ctx, CustomerInput{FullName: "Orang Lain", Gender: models.GenderFemale, Phone: "+62 812 3456 7890"})
	requireKind(t, err, KindConflict)
}

func TestCustomerService_Create_Invalid(t *testing.T) {
	svc := NewCustomerService(newTestDB(t))
	cases := map[string]CustomerInput{
		"missing name":  {Gender: models.GenderMale, Phone: "081234567890"},
		"bad gender":    {FullName: "A", Gender: "X", Phone: "081234567890"},
		"missing phone": {FullName: "A", Gender: models.GenderMale},
		"short phone":   {FullName: "A", Gender: models.GenderMale, Phone: "0812"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), in)
			requireKind(t, err, KindValidation)
		})
	}
}

func TestCustomerService_List(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()
	seedCustomer(t, db, "Andi", "081100000001")
	seedCustomer(t, db, "Budi", "081100000002")
	c, err := svc.Create(ctx, CustomerInput{FullName: "Citra", Gender: models.GenderFemale, Phone: "081100000003"})
	require.NoError(t, err)

	rows, total, err := svc.List(ctx, CustomerListParams{PageParams: utils.PageParams{Page: 1, Limit: 2}, SortBy: "nama-az"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Andi", rows[0].FullName)
	assert.Equal(t, "Budi", rows[1].FullName)

	rows, total, err = svc.List(ctx, CustomerListParams{PageParams: utils.PageParams{Page: 1, Limit: 10}, Gender: models.GenderFemale})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, c.ID, rows[0].ID)

	rows, _, err = svc.List(ctx, CustomerListParams{PageParams: utils.PageParams{Page: 1, Limit: 10}, Search: "BUD"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Budi", rows[0].FullName)
	assert.Zero(t, rows[0].OrderCount)
}

func TestCustomerService_Update(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()
	a := seedCustomer(t, db, "Andi", "081100000001")
	seedCustomer(t, db, "Budi", "081100000002")

	name := "Andi Wijaya"
	addr := "Jl. Merdeka 1"
	updated, err := svc.Update(ctx, a.ID, UpdateCustomerInput{FullName: &name, Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Andi Wijaya", updated.FullName)
	require.NotNil(t, updated.Address)
	assert.Equal(t, addr, *updated.Address)

	taken := "081100000002"
	_, err = svc.Update(ctx, a.ID, UpdateCustomerInput{Phone: &taken})
	requireKind(t, err, KindConflict)

	_, err = svc.Update(ctx, "P9999", UpdateCustomerInput{FullName: &name})
	requireKind(t, err, KindNotFound)
}

func TestCustomerService_Delete(t *testing.T) {
	f := newFixture(t)
	svc := NewCustomerService(f.db)
	ctx := context.Background()

	f.createOrder(t, 1, 100000, 0)
	err := svc.Delete(ctx, f.customer.ID)
	requireKind(t, err, KindValidation)
	assert.Contains(t, err.Error(), "1 pesanan")

	lone := seedCustomer(t, f.db, "Tanpa Pesanan", "081100000009")
	_, err = NewMeasurementService(f.db).Save(ctx, lone.ID, SaveMeasurementsInput{
		GarmentTypeID: f.garment.ID,
		Values:        []MeasurementValue{{Code: "LD", Value: 90}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, lone.ID))
	var count int64
	f.db.Model(&models.Measurement{}).Where("customer_id = ?", lone.ID).Count(&count)
	assert.Zero(t, count)

	requireKind(t, svc.Delete(ctx, lone.ID), KindNotFound)
}

func TestCustomerService_Get(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 6; i++ {
		f.createOrder(t, 1, 50000, 0)
	}

	got, err := NewCustomerService(f.db).Get(context.Background(), f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, got.Orders, 5)

	_, err = NewCustomerService(f.db).Get(context.Background(), "P0404")
	requireKind(t, err, KindNotFound)
}
