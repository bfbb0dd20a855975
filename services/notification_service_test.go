package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	to, body string
}

type fakeMessenger struct {
	sent []sentMessage
	err  error
}

func (m *fakeMessenger) Channel() string { return "test" }

func (m *fakeMessenger) Send(_ context.Context, to, body string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, sentMessage{to: to, body: body})
	return "SM123", nil
}

func TestNotificationService_OrderReady(t *testing.T) {
	f := newFixture(t)
	messenger := &fakeMessenger{}
	svc := NewNotificationService(f.db, messenger, "Penjahit Maju", nil)
	order := f.createOrder(t, 1, 300000, 100000)

	require.NoError(t, svc.OrderReady(context.Background(), order.NoNota))
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, f.customer.Phone, messenger.sent[0].to)
	assert.Contains(t, messenger.sent[0].body, order.NoNota)
	assert.Contains(t, messenger.sent[0].body, "Penjahit Maju")
	assert.Contains(t, messenger.sent[0].body, "Rp 200.000")

	logs, total, err := svc.List(context.Background(), NotificationListParams{PageParams: utils.PageParams{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, models.NotificationOrderReady, logs[0].Kind)
	assert.Equal(t, "sent", logs[0].Status)

	requireKind(t, svc.OrderReady(context.Background(), "NT99999"), KindNotFound)
}

func TestNotificationService_SendFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.db, &fakeMessenger{err: errors.New("unreachable")}, "Penjahit", nil)
	order := f.createOrder(t, 1, 100000, 0)

	require.Error(t, svc.OrderReady(context.Background(), order.NoNota))

	var entry models.NotificationLog
	require.NoError(t, f.db.First(&entry, "no_nota = ?", order.NoNota).Error)
	assert.Equal(t, "failed", entry.Status)
	assert.Equal(t, "unreachable", entry.ErrorMessage)
}

func TestNotificationService_SendPickupReminders(t *testing.T) {
	f := newFixture(t)
	messenger := &fakeMessenger{}
	svc := NewNotificationService(f.db, messenger, "Penjahit", nil)
	orders := NewOrderService(f.db, nil, nil)
	ctx := context.Background()

	waiting := f.createOrder(t, 1, 100000, 0)
	fresh := f.createOrder(t, 1, 100000, 0)
	f.createOrder(t, 1, 100000, 0) // still in production

	longAgo := time.Now().AddDate(0, 0, -5)
	orders.now = func() time.Time { return longAgo }
	_, err := orders.ChangeStatus(ctx, waiting.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)
	orders.now = time.Now
	_, err = orders.ChangeStatus(ctx, fresh.NoNota, f.user.ID, ChangeStatusInput{Status: models.StatusCompleted})
	require.NoError(t, err)

	sent, err := svc.SendPickupReminders(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0].body, waiting.NoNota)
	assert.Contains(t, messenger.sent[0].body, "5 hari")

	// Already reminded today.
	sent, err = svc.SendPickupReminders(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestNotificationService_StartSchedulerRejectsBadSpec(t *testing.T) {
	svc := NewNotificationService(newTestDB(t), &fakeMessenger{}, "Penjahit", nil)
	_, err := svc.StartScheduler("not a cron spec", 3)
	require.Error(t, err)

	c, err := svc.StartScheduler("0 9 * * *", 3)
	require.NoError(t, err)
	c.Stop()
}
