package models

import "time"

type Measurement struct {
	ID            uint      `gorm:"primaryKey" json:"idUkuran"`
	CustomerID    string    `gorm:"type:varchar(12);not null;uniqueIndex:idx_measurement_key,priority:1" json:"idPelanggan"`
	GarmentTypeID string    `gorm:"type:varchar(12);not null;uniqueIndex:idx_measurement_key,priority:2" json:"idJenis"`
	Code          string    `gorm:"size:10;not null;uniqueIndex:idx_measurement_key,priority:3" json:"kodeUkuran"`
	Value         float64   `gorm:"not null" json:"nilai"`
	MeasuredAt    time.Time `gorm:"not null" json:"tanggalUkur"`
	Note          *string   `gorm:"type:text" json:"catatan"`

	GarmentType *GarmentType `json:"jenisPakaian,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MeasurementHistory records a changed measurement value. Rows are only ever
// inserted.
type MeasurementHistory struct {
	ID            uint      `gorm:"primaryKey" json:"idHistory"`
	CustomerID    string    `gorm:"type:varchar(12);index;not null" json:"idPelanggan"`
	GarmentTypeID string    `gorm:"type:varchar(12);index;not null" json:"idJenis"`
	Code          string    `gorm:"size:10;not null" json:"kodeUkuran"`
	OldValue      float64   `json:"nilaiLama"`
	NewValue      float64   `json:"nilaiBaru"`
	Note          *string   `gorm:"type:text" json:"keterangan"`
	CreatedAt     time.Time `json:"createdAt"`
}
