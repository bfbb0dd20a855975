package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Messenger delivers a text message to a customer's phone.
type Messenger interface {
	Send(ctx context.Context, to, body string) (string, error)
	Channel() string
}

// TwilioMessenger sends WhatsApp messages through the Twilio REST API.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioMessenger(accountSID, authToken, fromNumber string) *TwilioMessenger {
	return &TwilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: fromNumber,
	}
}

func (m *TwilioMessenger) Channel() string { return "whatsapp" }

func (m *TwilioMessenger) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + to)
	params.SetFrom("whatsapp:" + m.from)
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// LogMessenger only logs messages. It is used when Twilio is not configured.
type LogMessenger struct {
	logger *zap.Logger
}

func NewLogMessenger(logger *zap.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

func (m *LogMessenger) Channel() string { return "log" }

func (m *LogMessenger) Send(_ context.Context, to, body string) (string, error) {
	m.logger.Info("notification", zap.String("to", to), zap.String("body", body))
	return "", nil
}

// NotificationService tells customers when their order can be picked up and
// reminds them when it has been waiting for a while.
type NotificationService struct {
	db        *gorm.DB
	messenger Messenger
	logger    *zap.Logger
	shopName  string
	now       func() time.Time
}

func NewNotificationService(db *gorm.DB, messenger Messenger, shopName string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		db:        db,
		messenger: messenger,
		logger:    logger,
		shopName:  shopName,
		now:       time.Now,
	}
}

// OrderReady sends the "ready for pickup" message for an order.
func (s *NotificationService) OrderReady(ctx context.Context, noNota string) error {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Customer").First(&order, "no_nota = ?", noNota).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Pesanan tidak ditemukan")
		}
		return fmt.Errorf("get order: %w", err)
	}
	return s.send(ctx, &order, models.NotificationOrderReady, s.readyMessage(&order))
}

// SendPickupReminders reminds every customer whose order has been SELESAI for
// at least afterDays days. An order is reminded at most once per day.
func (s *NotificationService) SendPickupReminders(ctx context.Context, afterDays int) (int, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, -afterDays)
	today := utils.BeginningOfDay(now)
	db := s.db.WithContext(ctx)

	remindedToday := db.Model(&models.NotificationLog{}).
		Select("no_nota").
		Where("kind = ? AND status = ? AND sent_at >= ?", models.NotificationPickupReminder, "sent", today)

	var orders []models.Order
	err := db.Preload("Customer").
		Where("status = ? AND completed_at <= ?", models.StatusCompleted, cutoff).
		Where("no_nota NOT IN (?)", remindedToday).
		Order("completed_at ASC").
		Find(&orders).Error
	if err != nil {
		return 0, fmt.Errorf("find orders awaiting pickup: %w", err)
	}

	sent := 0
	for i := range orders {
		o := &orders[i]
		if err := s.send(ctx, o, models.NotificationPickupReminder, s.reminderMessage(o, now)); err != nil {
			s.logger.Warn("pickup reminder failed", zap.String("noNota", o.NoNota), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// StartScheduler runs SendPickupReminders on the given cron spec.
func (s *NotificationService) StartScheduler(spec string, afterDays int) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := s.SendPickupReminders(context.Background(), afterDays)
		if err != nil {
			s.logger.Error("pickup reminder run failed", zap.Error(err))
			return
		}
		s.logger.Info("pickup reminders sent", zap.Int("count", n))
	})
	if err != nil {
		return nil, fmt.Errorf("schedule pickup reminders: %w", err)
	}
	c.Start()
	s.logger.Info("reminder scheduler started", zap.String("spec", spec), zap.Int("afterDays", afterDays))
	return c, nil
}

func (s *NotificationService) send(ctx context.Context, order *models.Order, kind, message string) error {
	if order.Customer == nil || order.Customer.Phone == "" {
		return validationError("Pelanggan pesanan %s tidak memiliki nomor WA", order.NoNota)
	}

	sid, sendErr := s.messenger.Send(ctx, order.Customer.Phone, message)
	entry := models.NotificationLog{
		NoNota:     order.NoNota,
		CustomerID: order.CustomerID,
		Kind:       kind,
		Channel:    s.messenger.Channel(),
		Recipient:  order.Customer.Phone,
		Message:    message,
		Status:     "sent",
		SentAt:     s.now(),
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
	} else {
		s.logger.Info("notification sent",
			zap.String("noNota", order.NoNota),
			zap.String("kind", kind),
			zap.String("sid", sid))
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("failed to log notification", zap.String("noNota", order.NoNota), zap.Error(err))
	}
	if sendErr != nil {
		return fmt.Errorf("send %s: %w", kind, sendErr)
	}
	return nil
}

func (s *NotificationService) readyMessage(o *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s, pesanan Anda dengan nota %s di %s sudah selesai dan siap diambil.",
		o.Customer.FullName, o.NoNota, s.shopName)
	if o.RemainingBalance > 0 {
		fmt.Fprintf(&b, " Sisa pembayaran: %s.", utils.FormatRupiah(o.RemainingBalance))
	}
	b.WriteString(" Terima kasih.")
	return b.String()
}

func (s *NotificationService) reminderMessage(o *models.Order, now time.Time) string {
	days := 0
	if o.CompletedAt != nil {
		days = utils.DaysBetween(*o.CompletedAt, now)
	}
	msg := fmt.Sprintf("Halo %s, pesanan Anda dengan nota %s di %s sudah selesai sejak %d hari lalu dan menunggu diambil.",
		o.Customer.FullName, o.NoNota, s.shopName, days)
	if o.RemainingBalance > 0 {
		msg += fmt.Sprintf(" Sisa pembayaran: %s.", utils.FormatRupiah(o.RemainingBalance))
	}
	return msg
}

type NotificationListParams struct {
	utils.PageParams
	NoNota string
	Kind   string
}

// List returns the notification log, newest first.
func (s *NotificationService) List(ctx context.Context, p NotificationListParams) ([]models.NotificationLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.NotificationLog{})
	if p.NoNota != "" {
		q = q.Where("no_nota = ?", p.NoNota)
	}
	if p.Kind != "" {
		q = q.Where("kind = ?", p.Kind)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	var rows []models.NotificationLog
	if err := q.Order("sent_at DESC, id DESC").Offset(p.Offset()).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return rows, total, nil
}
