package models

import "time"

const (
	CategoryTop     = "ATASAN"
	CategoryBottom  = "BAWAHAN"
	CategoryDress   = "DRESS"
	CategoryFormal  = "FORMAL"
	CategoryOther   = "LAINNYA"
	GenderTagUnisex = "UNISEX"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryTop, CategoryBottom, CategoryDress, CategoryFormal, CategoryOther:
		return true
	}
	return false
}

// ValidGenderTag accepts the customer gender codes plus UNISEX.
func ValidGenderTag(g string) bool {
	return ValidGender(g) || g == GenderTagUnisex
}

// GarmentType is a catalogue entry (kemeja, gamis, celana, ...) carrying its
// own measurement sheet.
type GarmentType struct {
	ID            string  `gorm:"type:varchar(12);primaryKey" json:"idJenis"`
	Name          string  `gorm:"size:100;not null;uniqueIndex" json:"namaJenis"`
	Category      string  `gorm:"size:20;not null;default:'ATASAN'" json:"kategori"`
	ForGender     string  `gorm:"size:10;not null;default:'UNISEX'" json:"untukGender"`
	StartingPrice int64   `gorm:"not null;default:0" json:"hargaMulaiDari"`
	Description   *string `gorm:"type:text" json:"deskripsi"`

	Templates []MeasurementTemplate `gorm:"foreignKey:GarmentTypeID" json:"templateUkuran,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MeasurementTemplate is one field of a garment type's measurement sheet.
type MeasurementTemplate struct {
	ID            uint   `gorm:"primaryKey" json:"idTemplate"`
	GarmentTypeID string `gorm:"type:varchar(12);index;not null" json:"idJenis"`
	Code          string `gorm:"size:10;not null" json:"kodeUkuran"`
	Name          string `gorm:"size:100;not null" json:"namaUkuran"`
	Unit          string `gorm:"size:10;not null;default:'cm'" json:"satuan"`
	SortOrder     int    `gorm:"not null" json:"urutan"`
	IsRequired    bool   `gorm:"not null" json:"isRequired"`
}
