package models

import "time"

const (
	NotificationOrderReady     = "order_ready"
	NotificationPickupReminder = "pickup_reminder"
)

type NotificationLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	NoNota       string    `gorm:"type:varchar(20);index;not null" json:"noNota"`
	CustomerID   string    `gorm:"type:varchar(12);index;not null" json:"idPelanggan"`
	Kind         string    `gorm:"type:varchar(20);not null" json:"kind"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, log
	Recipient    string    `gorm:"size:30" json:"recipient"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt       time.Time `gorm:"index" json:"sentAt"`
}
