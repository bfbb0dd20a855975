package models

import "time"

type PaymentKind string

const (
	PaymentDownPayment PaymentKind = "DP"
	PaymentInstallment PaymentKind = "CICILAN"
	PaymentSettlement  PaymentKind = "LUNAS"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodQRIS     PaymentMethod = "QRIS"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodQRIS:
		return true
	}
	return false
}

// Payment rows are append-only; the order's RemainingBalance is updated in the
// same transaction that inserts one.
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"idPembayaran"`
	NoNota    string        `gorm:"type:varchar(20);index;not null" json:"noNota"`
	Amount    int64         `gorm:"not null" json:"nominal"`
	Kind      PaymentKind   `gorm:"type:varchar(10);not null" json:"jenisBayar"`
	Method    PaymentMethod `gorm:"type:varchar(10);not null" json:"metodeBayar"`
	PaidAt    time.Time     `gorm:"not null;index" json:"tglBayar"`
	Note      *string       `gorm:"type:text" json:"catatan"`
	CreatedAt time.Time     `json:"createdAt"`
}
