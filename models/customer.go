package models

import "time"

const (
	GenderMale   = "L"
	GenderFemale = "P"
)

// ValidGender reports whether g is one of the customer gender codes.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

type Customer struct {
	ID       string  `gorm:"type:varchar(12);primaryKey" json:"idPelanggan"`
	FullName string  `gorm:"size:100;not null;index" json:"namaLengkap"`
	Gender   string  `gorm:"size:1;not null" json:"jenisKelamin"`
	Phone    string  `gorm:"size:20;not null;uniqueIndex" json:"noWa"`
	Email    *string `gorm:"size:100" json:"email"`
	Address  *string `gorm:"type:text" json:"alamat"`
	Notes    *string `gorm:"type:text" json:"catatan"`

	Orders       []Order       `gorm:"foreignKey:CustomerID" json:"pesanan,omitempty"`
	Measurements []Measurement `gorm:"foreignKey:CustomerID" json:"ukuran,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
