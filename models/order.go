package models

import "time"

type OrderStatus string

const (
	StatusQueued    OrderStatus = "ANTRI"
	StatusCutting   OrderStatus = "POTONG"
	StatusSewing    OrderStatus = "JAHIT"
	StatusCompleted OrderStatus = "SELESAI"
	StatusPickedUp  OrderStatus = "DIAMBIL"
	StatusCancelled OrderStatus = "BATAL"
)

// Pipeline lists the production stages in order. BATAL sits outside it.
var Pipeline = []OrderStatus{StatusQueued, StatusCutting, StatusSewing, StatusCompleted, StatusPickedUp}

func (s OrderStatus) Valid() bool {
	return s == StatusCancelled || s.Stage() >= 0
}

// Stage returns the position of s in Pipeline, or -1.
func (s OrderStatus) Stage() int {
	for i, st := range Pipeline {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Terminal() bool {
	return s == StatusPickedUp || s == StatusCancelled
}

// Order (pesanan) is identified by its nota number.
type Order struct {
	NoNota           string      `gorm:"type:varchar(20);primaryKey" json:"noNota"`
	CustomerID       string      `gorm:"type:varchar(12);index;not null" json:"idPelanggan"`
	UserID           uint        `gorm:"index;not null" json:"idUser"`
	EntryDate        time.Time   `gorm:"not null;index" json:"tglMasuk"`
	PromisedDate     time.Time   `gorm:"not null" json:"tglJanjiSelesai"`
	CompletedAt      *time.Time  `json:"tglSelesaiAktual"`
	TotalCost        int64       `gorm:"not null" json:"totalBiaya"`
	DownPayment      int64       `gorm:"not null;default:0" json:"totalDp"`
	RemainingBalance int64       `gorm:"not null" json:"sisaBayar"`
	Status           OrderStatus `gorm:"type:varchar(10);not null;index" json:"statusPesanan"`
	Note             *string     `gorm:"type:text" json:"catatanPesanan"`

	Customer *Customer       `json:"pelanggan,omitempty"`
	User     *User           `json:"user,omitempty"`
	Lines    []OrderLine     `gorm:"foreignKey:NoNota" json:"detailPesanan,omitempty"`
	Payments []Payment       `gorm:"foreignKey:NoNota" json:"pembayaran,omitempty"`
	History  []StatusHistory `gorm:"foreignKey:NoNota" json:"historyStatus,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderLine struct {
	ID            uint    `gorm:"primaryKey" json:"idDetail"`
	NoNota        string  `gorm:"type:varchar(20);index;not null" json:"noNota"`
	GarmentTypeID string  `gorm:"type:varchar(12);index;not null" json:"idJenis"`
	ItemName      string  `gorm:"size:100;not null" json:"namaItem"`
	Style         *string `gorm:"type:text" json:"modelSpesifik"`
	Quantity      int     `gorm:"not null;default:1" json:"jumlahPcs"`
	UnitPrice     int64   `gorm:"not null" json:"hargaSatuan"`
	Subtotal      int64   `gorm:"not null" json:"subtotal"`
	TailorNote    *string `gorm:"type:text" json:"catatanPenjahit"`

	GarmentType *GarmentType    `json:"jenisPakaian,omitempty"`
	Materials   []ExtraMaterial `gorm:"foreignKey:OrderLineID" json:"tambahanBahan,omitempty"`
}

// ExtraMaterial (tambahan bahan) is fabric or trim billed on top of a line.
type ExtraMaterial struct {
	ID          uint      `gorm:"primaryKey" json:"idTambahan"`
	OrderLineID uint      `gorm:"index;not null" json:"idDetail"`
	Name        string    `gorm:"size:100;not null" json:"namaBahan"`
	Quantity    int       `gorm:"not null" json:"qty"`
	UnitPrice   int64     `gorm:"not null" json:"harga"`
	Subtotal    int64     `gorm:"not null" json:"subtotal"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StatusHistory struct {
	ID             uint         `gorm:"primaryKey" json:"idHistory"`
	NoNota         string       `gorm:"type:varchar(20);index;not null" json:"noNota"`
	PreviousStatus *OrderStatus `gorm:"type:varchar(10)" json:"statusLama"`
	NewStatus      OrderStatus  `gorm:"type:varchar(10);not null" json:"statusBaru"`
	UserID         uint         `gorm:"index;not null" json:"idUser"`
	Note           *string      `gorm:"type:text" json:"catatanPerubahan"`
	CreatedAt      time.Time    `json:"createdAt"`

	User *User `json:"user,omitempty"`
}
