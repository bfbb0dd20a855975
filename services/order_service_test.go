package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	ready []string
	err   error
}

func (n *fakeNotifier) OrderReady(_ context.Context, noNota string) error {
	n.ready = append(n.ready, noNota)
	return n.err
}

func TestOrderService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, nil, nil)
	entry := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	order, err := svc.Create(context.Background(), f.user.ID, CreateOrderInput{
		CustomerID:        f.customer.ID,
		EntryDate:         date(entry),
		PromisedDate:      date(entry.AddDate(0, 0, 10)),
		DownPayment:       100000,
		DownPaymentMethod: models.MethodTransfer,
		Note:              "Untuk lebaran",
		Lines: []OrderLineInput{
			{GarmentTypeID: f.garment.ID, Quantity: 2, UnitPrice: 150000, Materials: []MaterialInput{{Name: "Kancing", Quantity: 10, UnitPrice: 2000}}},
			{GarmentTypeID: f.garment.ID, ItemName: "Kemeja anak", UnitPrice: 80000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "NT00001", order.NoNota)
	assert.EqualValues(t, 2*150000+10*2000+80000, order.TotalCost)
	assert.EqualValues(t, 100000, order.DownPayment)
	assert.EqualValues(t, order.TotalCost-100000, order.RemainingBalance)
	assert.Equal(t, models.StatusQueued, order.Status)
	assert.Equal(t, f.user.ID, order.UserID)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Kemeja Pria", order.Lines[0].ItemName)
	assert.EqualValues(t, 300000, order.Lines[0].Subtotal)
	require.Len(t, order.Lines[0].Materials, 1)
	assert.EqualValues(t, 20000, order.Lines[0].Materials[0].Subtotal)
	assert.Equal(t, 1, order.Lines[1].Quantity)

	require.Len(t, order.History, 1)
	assert.Nil(t, order.History[0].PreviousStatus)
	assert.Equal(t, models.StatusQueued, order.History[0].NewStatus)

	require.Len(t, order.Payments, 1)
	assert.Equal(t, models.PaymentDownPayment, order.Payments[0].Kind)
	assert.Equal(t, models.MethodTransfer, order.Payments[0].Method)
	assert.True(t, order.Payments[0].PaidAt.Equal(entry))

	second := f.createOrder(t, 1, 10000, 0)
	assert.Equal(t, "NT00002", second.NoNota)
	assert.Empty(t, second.Payments)
}

func TestOrderService_CreateWithInlineCustomer(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, nil, nil)

	order, err := svc.Create(context.Background(), f.user.ID, CreateOrderInput{
		NewCustomer:  &CustomerInput{FullName: "Dewi", Gender: models.GenderFemale, Phone: "085700000001"},
		PromisedDate: date(time.Now().AddDate(0, 0, 3)),
		Lines:        []OrderLineInput{{GarmentTypeID: f.garment.ID, UnitPrice: 100000}},
	})
	require.NoError(t, err)
	assert.Equal(t, "P0002", order.CustomerID)
	require.NotNil(t, order.Customer)
	assert.Equal(t, "Dewi", order.Customer.FullName)
}

func TestOrderService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, nil, nil)
	promised := date(time.Now().AddDate(0, 0, 7))
	line := []OrderLineInput{{GarmentTypeID: f.garment.ID, UnitPrice: 100000}}

	cases := []struct {
		name string
		in   CreateOrderInput
		kind ErrorKind
	}{
		{"no customer", CreateOrderInput{PromisedDate: promised, Lines: line}, KindValidation},
		{"no promised date", CreateOrderInput{CustomerID: f.customer.ID, Lines: line}, KindValidation},
		{"no lines", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: promised}, KindValidation},
		{"dp above total", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: promised, Lines: line, DownPayment: 100001}, KindValidation},
		{"negative price", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: promised, Lines: []OrderLineInput{{GarmentTypeID: f.garment.ID, UnitPrice: -1}}}, KindValidation},
		{"unknown customer", CreateOrderInput{CustomerID: "P0404", PromisedDate: promised, Lines: line}, KindNotFound},
		{"unknown garment", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: promised, Lines: []OrderLineInput{{GarmentTypeID: "JP404", UnitPrice: 1}}}, KindNotFound},
		{"promised before entry", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: date(time.Now().AddDate(0, 0, -1)), Lines: line}, KindValidation},
		{"line subtotal overflows", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: promised, Lines: []OrderLineInput{
			{GarmentTypeID: f.garment.ID, UnitPrice: math.MaxInt64/2 + 1, Quantity: 4},
		}}, KindValidation},
		{"total overflows", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: promised, Lines: []OrderLineInput{
			{GarmentTypeID: f.garment.ID, UnitPrice: math.MaxInt64},
			{GarmentTypeID: f.garment.ID, UnitPrice: 1},
		}}, KindValidation},
		{"material subtotal overflows", CreateOrderInput{CustomerID: f.customer.ID, PromisedDate: promised, Lines: []OrderLineInput{{
			GarmentTypeID: f.garment.ID,
			UnitPrice:     1,
			Materials:     []MaterialInput{{Name: "Kancing", Quantity: 3, UnitPrice: math.MaxInt64 / 2}},
		}}}, KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), f.user.ID, tc.in)
			requireKind(t, err, tc.kind)
		})
	}

	// A rejected order leaves no rows and no used nota number behind.
	_, err := svc.Create(context.Background(), f.user.ID, CreateOrderInput{
		CustomerID:   f.customer.ID,
		PromisedDate: promised,
		Lines: []OrderLineInput{
			{GarmentTypeID: f.garment.ID, UnitPrice: 1},
			{GarmentTypeID: "JP404", UnitPrice: 1},
		},
	})
	requireKind(t, err, KindNotFound)

	var orders, lines, sequences int64
	f.db.Model(&models.Order{}).Count(&orders)
	f.db.Model(&models.OrderLine{}).Count(&lines)
	f.db.Model(&models.IDSequence{}).Where("name = ?", notaIDs.name).Count(&sequences)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
	assert.Zero(t, sequences)
}

func TestOrderService_ChangeStatus(t *testing.T) {
	f := newFixture(t)
	notifier := &fakeNotifier{}
	svc := NewOrderService(f.db, notifier, nil)
	ctx := context.Background()
	order := f.createOrder(t, 1, 100000, 0)

	updated, err := svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCutting, Note: "Mulai potong"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCutting, updated.Status)
	assert.Nil(t, updated.CompletedAt)
	assert.Empty(t, notifier.ready)

	_, err = svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusQueued})
	requireKind(t, err, KindConflict)
	_, err = svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCutting})
	requireKind(t, err, KindConflict)

	updated, err = svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	svc.pending.Wait()
	assert.Equal(t, []string{order.NoNota}, notifier.ready)

	history, err := svc.StatusHistory(ctx, order.NoNota)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.NotNil(t, history[0].PreviousStatus)
	assert.Equal(t, models.StatusCutting, *history[0].PreviousStatus)
	assert.Equal(t, models.StatusCompleted, history[0].NewStatus)
	require.NotNil(t, history[0].User)
	assert.Equal(t, f.user.FullName, history[0].User.FullName)

	_, err = svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusPickedUp})
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCancelled})
	requireKind(t, err, KindConflict)
}

func TestOrderService_ChangeStatusInputErrors(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, nil, nil)
	ctx := context.Background()
	order := f.createOrder(t, 1, 100000, 0)

	_, err := svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{})
	requireKind(t, err, KindValidation)
	_, err = svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: "DIJAHIT"})
	requireKind(t, err, KindValidation)
	_, err = svc.ChangeStatus(ctx, "NT99999", f.user.ID, ChangeStatusInput{Status: models.StatusCutting})
	requireKind(t, err, KindNotFound)
}

func TestOrderService_NotifierFailureDoesNotFailStatusChange(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, &fakeNotifier{err: errors.New("twilio down")}, nil)
	order := f.createOrder(t, 1, 100000, 0)

	updated, err := svc.ChangeStatus(context.Background(), order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	svc.pending.Wait()
}

// blockingNotifier holds OrderReady until released and reports the state of
// the context it was given.
type blockingNotifier struct {
	release chan struct{}
	done    chan error
}

func (n *blockingNotifier) OrderReady(ctx context.Context, _ string) error {
	<-n.release
	if _, ok := ctx.Deadline(); !ok {
		n.done <- errors.New("no deadline")
		return nil
	}
	n.done <- ctx.Err()
	return nil
}

func TestOrderService_ReadyNotificationDoesNotBlockStatusChange(t *testing.T) {
	f := newFixture(t)
	notifier := &blockingNotifier{release: make(chan struct{}), done: make(chan error, 1)}
	svc := NewOrderService(f.db, notifier, nil)
	order := f.createOrder(t, 1, 100000, 0)

	ctx, cancel := context.WithCancel(context.Background())
	updated, err := svc.ChangeStatus(ctx, order.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// The request is over; the delivery keeps its own deadline.
	cancel()
	close(notifier.release)
	require.NoError(t, <-notifier.done)
	svc.pending.Wait()
}

func TestOrderService_Delete(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, nil, nil)
	ctx := context.Background()

	order := f.createOrder(t, 1, 100000, 50000)
	require.NoError(t, svc.Delete(ctx, order.NoNota))
	for _, model := range []any{&models.Order{}, &models.OrderLine{}, &models.Payment{}, &models.StatusHistory{}} {
		var count int64
		f.db.Model(model).Count(&count)
		assert.Zero(t, count, "%T left behind", model)
	}
	requireKind(t, svc.Delete(ctx, order.NoNota), KindNotFound)

	picked := f.createOrder(t, 1, 100000, 0)
	_, err := svc.ChangeStatus(ctx, picked.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusPickedUp})
	require.NoError(t, err)
	err = svc.Delete(ctx, picked.NoNota)
	requireKind(t, err, KindValidation)
	assert.Contains(t, err.Error(), "sudah diambil")
}

func TestOrderService_List(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, nil, nil)
	ctx := context.Background()
	other := seedCustomer(t, f.db, "Rina Marlina", "081300000001")

	small := f.createOrder(t, 1, 50000, 0)
	big := f.createOrder(t, 3, 200000, 100000)
	_, err := svc.Create(ctx, f.user.ID, CreateOrderInput{
		CustomerID:   other.ID,
		PromisedDate: date(time.Now().AddDate(0, 0, 2)),
		Lines:        []OrderLineInput{{GarmentTypeID: f.garment.ID, UnitPrice: 120000}},
	})
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, small.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusSewing})
	require.NoError(t, err)

	page := utils.PageParams{Page: 1, Limit: 10}

	rows, total, err := svc.List(ctx, OrderListParams{PageParams: page, SortBy: "total-tinggi"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 3)
	assert.Equal(t, big.NoNota, rows[0].NoNota)
	assert.EqualValues(t, 1, rows[0].LineCount)
	assert.EqualValues(t, 1, rows[0].PaymentCount)
	require.NotNil(t, rows[0].Customer)
	assert.Equal(t, f.customer.FullName, rows[0].Customer.FullName)

	rows, total, err = svc.List(ctx, OrderListParams{PageParams: page, Search: "rina"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, other.ID, rows[0].CustomerID)

	rows, _, err = svc.List(ctx, OrderListParams{PageParams: page, Search: small.NoNota})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, total, err = svc.List(ctx, OrderListParams{PageParams: page, Status: string(models.StatusSewing)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, small.NoNota, rows[0].NoNota)

	rows, total, err = svc.List(ctx, OrderListParams{PageParams: utils.PageParams{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 1)
}

func TestOrderService_UpdateHeader(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.db, nil, nil)
	order := f.createOrder(t, 1, 100000, 0)
	promised := utils.BeginningOfDay(time.Now().AddDate(0, 1, 0))
	note := "Ambil sore"

	updated, err := svc.UpdateHeader(context.Background(), order.NoNota, UpdateOrderInput{PromisedDate: date(promised), Note: &note})
	require.NoError(t, err)
	assert.True(t, updated.PromisedDate.Equal(promised))
	require.NotNil(t, updated.Note)
	assert.Equal(t, note, *updated.Note)
	assert.EqualValues(t, 100000, updated.TotalCost)

	_, err = svc.UpdateHeader(context.Background(), "NT99999", UpdateOrderInput{Note: &note})
	requireKind(t, err, KindNotFound)

	early := date(order.EntryDate.AddDate(0, 0, -1))
	_, err = svc.UpdateHeader(context.Background(), order.NoNota, UpdateOrderInput{PromisedDate: early})
	requireKind(t, err, KindValidation)
	sameDay := date(utils.BeginningOfDay(order.EntryDate))
	_, err = svc.UpdateHeader(context.Background(), order.NoNota, UpdateOrderInput{PromisedDate: sameDay})
	require.NoError(t, err)
}
