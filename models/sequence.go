package models

// IDSequence holds the last number issued for one identifier class.
type IDSequence struct {
	Name  string `gorm:"type:varchar(30);primaryKey"`
	Value int64  `gorm:"not null"`
}
