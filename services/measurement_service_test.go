package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurementService_SaveUpsertsAndRecordsHistory(t *testing.T) {
	f := newFixture(t)
	svc := NewMeasurementService(f.db)
	ctx := context.Background()

	first, err := svc.Save(ctx, f.customer.ID, SaveMeasurementsInput{
		GarmentTypeID: f.garment.ID,
		Values:        []MeasurementValue{{Code: "LD", Value: 90}, {Code: "LP", Value: 80}},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)

	history, err := svc.History(ctx, f.customer.ID, f.garment.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.Save(ctx, f.customer.ID, SaveMeasurementsInput{
		GarmentTypeID: f.garment.ID,
		Values:        []MeasurementValue{{Code: "LD", Value: 92}, {Code: "LP", Value: 80}},
		Note:          "Naik berat badan",
	})
	require.NoError(t, err)

	rows, err := svc.ListByCustomerGarment(ctx, f.customer.ID, f.garment.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "LD", rows[0].Code)
	assert.Equal(t, 92.0, rows[0].Value)

	history, err = svc.History(ctx, f.customer.ID, f.garment.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 90.0, history[0].OldValue)
	assert.Equal(t, 92.0, history[0].NewValue)
	require.NotNil(t, history[0].Note)
	assert.Equal(t, "Naik berat badan", *history[0].Note)
}

func TestMeasurementService_SaveValidatesAgainstTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := NewGarmentService(f.db).ReplaceTemplates(ctx, f.garment.ID, []TemplateInput{{Code: "LD", Name: "Lingkar Dada"}})
	require.NoError(t, err)

	svc := NewMeasurementService(f.db)
	_, err = svc.Save(ctx, f.customer.ID, SaveMeasurementsInput{
		GarmentTypeID: f.garment.ID,
		Values:        []MeasurementValue{{Code: "LD", Value: 90}, {Code: "XX", Value: 1}},
	})
	requireKind(t, err, KindValidation)

	// Nothing from the rejected batch was stored.
	rows, err := svc.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMeasurementService_SaveUnknownRefs(t *testing.T) {
	f := newFixture(t)
	svc := NewMeasurementService(f.db)
	ctx := context.Background()

	_, err := svc.Save(ctx, "P0404", SaveMeasurementsInput{GarmentTypeID: f.garment.ID, Values: []MeasurementValue{}})
	requireKind(t, err, KindNotFound)

	_, err = svc.Save(ctx, f.customer.ID, SaveMeasurementsInput{GarmentTypeID: "JP404", Values: []MeasurementValue{}})
	requireKind(t, err, KindNotFound)

	_, err = svc.Save(ctx, f.customer.ID, SaveMeasurementsInput{GarmentTypeID: f.garment.ID})
	requireKind(t, err, KindValidation)

	_, err = svc.ListByCustomer(ctx, "P0404")
	requireKind(t, err, KindNotFound)
}
