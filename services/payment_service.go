package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentInput struct {
	Amount int64                `json:"jumlahBayar"`
	Method models.PaymentMethod `json:"metodeBayar" binding:"omitempty,paymethod"`
	Note   string               `json:"keterangan"`
	PaidAt *utils.Date          `json:"tglBayar"`
}

// PaymentSummary is the ledger footer shown under a payment history.
type PaymentSummary struct {
	TotalCost        int64 `json:"totalBiaya"`
	TotalPaid        int64 `json:"totalPaid"`
	RemainingBalance int64 `json:"sisaBayar"`
}

type PaymentHistory struct {
	Payments []models.Payment `json:"data"`
	Summary  PaymentSummary   `json:"summary"`
}

// ClassifyPayment labels a payment: the first one is DP, one that clears the
// balance is LUNAS, anything else is CICILAN.
func ClassifyPayment(paidSoFar, remaining, amount int64) models.PaymentKind {
	switch {
	case paidSoFar == 0:
		return models.PaymentDownPayment
	case amount >= remaining:
		return models.PaymentSettlement
	default:
		return models.PaymentInstallment
	}
}

type PaymentService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewPaymentService(db *gorm.DB, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{db: db, logger: logger, now: time.Now}
}

// Record appends a payment to an order. The order row is locked while the
// balance is checked and rewritten, so two cashiers cannot both settle it.
func (s *PaymentService) Record(ctx context.Context, noNota string, in PaymentInput) (*models.Payment, error) {
	if in.Method == "" {
		return nil, validationError("Jumlah bayar dan metode bayar harus diisi")
	}
	if !in.Method.Valid() {
		return nil, validationError("Metode bayar harus CASH, TRANSFER, atau QRIS")
	}
	if in.Amount <= 0 {
		return nil, validationError("Jumlah bayar harus lebih dari 0")
	}
	paidAt, ok := in.PaidAt.Get()
	if !ok {
		paidAt = s.now()
	}

	var payment models.Payment
	var remaining int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := forUpdate(tx).First(&order, "no_nota = ?", noNota).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Pesanan tidak ditemukan")
			}
			return fmt.Errorf("get order: %w", err)
		}

		paid, err := sumPayments(tx, noNota)
		if err != nil {
			return err
		}
		current := order.TotalCost - paid
		if in.Amount > current {
			return validationError("Jumlah bayar melebihi sisa bayar (%s)", utils.FormatRupiah(current))
		}

		payment = models.Payment{
			NoNota: noNota,
			Amount: in.Amount,
			Kind:   ClassifyPayment(paid, current, in.Amount),
			Method: in.Method,
			PaidAt: paidAt,
			Note:   optionalString(in.Note),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		remaining = current - in.Amount
		if err := tx.Model(&order).Update("remaining_balance", remaining).Error; err != nil {
			return fmt.Errorf("update remaining balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("noNota", noNota),
		zap.Int64("amount", payment.Amount),
		zap.String("kind", string(payment.Kind)),
		zap.Int64("remaining", remaining))
	return &payment, nil
}

// History lists payments oldest first with the order's balance summary.
func (s *PaymentService) History(ctx context.Context, noNota string) (*PaymentHistory, error) {
	db := s.db.WithContext(ctx)
	var order models.Order
	if err := db.Select("no_nota", "total_cost", "remaining_balance").First(&order, "no_nota = ?", noNota).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Pesanan tidak ditemukan")
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	var payments []models.Payment
	if err := db.Where("no_nota = ?", noNota).Order("paid_at ASC, id ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	var paid int64
	for _, p := range payments {
		paid += p.Amount
	}
	return &PaymentHistory{
		Payments: payments,
		Summary: PaymentSummary{
			TotalCost:        order.TotalCost,
			TotalPaid:        paid,
			RemainingBalance: order.RemainingBalance,
		},
	}, nil
}

func sumPayments(tx *gorm.DB, noNota string) (int64, error) {
	var paid int64
	err := tx.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("no_nota = ?", noNota).
		Scan(&paid).Error
	if err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return paid, nil
}
