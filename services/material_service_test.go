package services

import (
	"context"
	"math"
	"testing"

	"penjahit-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialService_AddAndRemoveAdjustTotals(t *testing.T) {
	f := newFixture(t)
	svc := NewMaterialService(f.db)
	ctx := context.Background()
	order := f.createOrder(t, 1, 200000, 50000)
	lineID := order.Lines[0].ID

	material, err := svc.Add(ctx, AddMaterialInput{
		OrderLineID:   lineID,
		MaterialInput: MaterialInput{Name: "Kain furing", Quantity: 2, UnitPrice: 25000},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 50000, material.Subtotal)

	var stored models.Order
	require.NoError(t, f.db.First(&stored, "no_nota = ?", order.NoNota).Error)
	assert.EqualValues(t, 250000, stored.TotalCost)
	assert.EqualValues(t, 200000, stored.RemainingBalance)

	rows, err := svc.ListByLine(ctx, lineID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, svc.Remove(ctx, material.ID))
	require.NoError(t, f.db.First(&stored, "no_nota = ?", order.NoNota).Error)
	assert.EqualValues(t, 200000, stored.TotalCost)
	assert.EqualValues(t, 150000, stored.RemainingBalance)

	requireKind(t, svc.Remove(ctx, material.ID), KindNotFound)
}

func TestMaterialService_RemoveRejectedWhenAlreadyPaid(t *testing.T) {
	f := newFixture(t)
	svc := NewMaterialService(f.db)
	ctx := context.Background()
	order := f.createOrder(t, 1, 100000, 0)

	material, err := svc.Add(ctx, AddMaterialInput{
		OrderLineID:   order.Lines[0].ID,
		MaterialInput: MaterialInput{Name: "Renda", Quantity: 1, UnitPrice: 30000},
	})
	require.NoError(t, err)

	_, err = NewPaymentService(f.db, nil).Record(ctx, order.NoNota, PaymentInput{Amount: 130000, Method: models.MethodCash})
	require.NoError(t, err)

	requireKind(t, svc.Remove(ctx, material.ID), KindValidation)
}

func TestMaterialService_AddRejects(t *testing.T) {
	f := newFixture(t)
	svc := NewMaterialService(f.db)
	ctx := context.Background()
	order := f.createOrder(t, 1, 100000, 0)
	lineID := order.Lines[0].ID

	_, err := svc.Add(ctx, AddMaterialInput{OrderLineID: lineID, MaterialInput: MaterialInput{Quantity: 1, UnitPrice: 1}})
	requireKind(t, err, KindValidation)
	_, err = svc.Add(ctx, AddMaterialInput{OrderLineID: lineID, MaterialInput: MaterialInput{Name: "Kancing", UnitPrice: 1}})
	requireKind(t, err, KindValidation)
	_, err = svc.Add(ctx, AddMaterialInput{OrderLineID: 9999, MaterialInput: MaterialInput{Name: "Kancing", Quantity: 1}})
	requireKind(t, err, KindNotFound)

	_, err = NewOrderService(f.db, nil, nil).ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCancelled})
	require.NoError(t, err)
	_, err = svc.Add(ctx, AddMaterialInput{OrderLineID: lineID, MaterialInput: MaterialInput{Name: "Kancing", Quantity: 1}})
	requireKind(t, err, KindValidation)
}

func TestMaterialService_AddRejectsTotalOverflow(t *testing.T) {
	f := newFixture(t)
	svc := NewMaterialService(f.db)
	ctx := context.Background()
	order := f.createOrder(t, 1, 100000, 0)

	_, err := svc.Add(ctx, AddMaterialInput{
		OrderLineID:   order.Lines[0].ID,
		MaterialInput: MaterialInput{Name: "Sutra", Quantity: 1, UnitPrice: math.MaxInt64 - 50000},
	})
	requireKind(t, err, KindValidation)

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, "no_nota = ?", order.NoNota).Error)
	assert.EqualValues(t, 100000, reloaded.TotalCost)
	assert.EqualValues(t, 100000, reloaded.RemainingBalance)
	var materials int64
	f.db.Model(&models.ExtraMaterial{}).Count(&materials)
	assert.Zero(t, materials)
}

func TestMaterialService_RemoveRejectedOnClosedOrder(t *testing.T) {
	f := newFixture(t)
	svc := NewMaterialService(f.db)
	ctx := context.Background()
	order := f.createOrder(t, 1, 100000, 0)

	material, err := svc.Add(ctx, AddMaterialInput{
		OrderLineID:   order.Lines[0].ID,
		MaterialInput: MaterialInput{Name: "Renda", Quantity: 1, UnitPrice: 30000},
	})
	require.NoError(t, err)

	_, err = NewOrderService(f.db, nil, nil).ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCancelled})
	require.NoError(t, err)

	requireKind(t, svc.Remove(ctx, material.ID), KindValidation)

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, "no_nota = ?", order.NoNota).Error)
	assert.EqualValues(t, 130000, reloaded.TotalCost)
	require.NoError(t, f.db.First(&models.ExtraMaterial{}, material.ID).Error)
}
