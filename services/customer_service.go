package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"gorm.io/gorm"
)

type CustomerInput struct {
	FullName string `json:"namaLengkap" binding:"required"`
	Gender   string `json:"jenisKelamin" binding:"required,gender"`
	Phone    string `json:"noWa" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"alamat"`
	Notes    string `json:"catatan"`
}

type UpdateCustomerInput struct {
	FullName *string `json:"namaLengkap"`
	Gender   *string `json:"jenisKelamin" binding:"omitempty,gender"`
	Phone    *string `json:"noWa"`
	Email    *string `json:"email"`
	Address  *string `json:"alamat"`
	Notes    *string `json:"catatan"`
}

type CustomerListParams struct {
	utils.PageParams
	Search string
	Gender string
	SortBy string
}

// CustomerSummary is a list row with relationship counts.
type CustomerSummary struct {
	models.Customer
	OrderCount       int64 `json:"jumlahPesanan"`
	MeasurementCount int64 `json:"jumlahUkuran"`
}

var customerSorts = map[string]string{
	"terbaru": "created_at DESC",
	"terlama": "created_at ASC",
	"nama-az": "full_name ASC",
	"nama-za": "full_name DESC",
}

type CustomerService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db, now: time.Now}
}

func (s *CustomerService) List(ctx context.Context, p CustomerListParams) ([]CustomerSummary, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if p.Search != "" {
		like := likePattern(p.Search)
		q = q.Where("LOWER(full_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, "%"+strings.TrimSpace(p.Search)+"%", like)
	}
	if p.Gender != "" {
		q = q.Where("gender = ?", p.Gender)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	order, ok := customerSorts[p.SortBy]
	if !ok {
		order = customerSorts["terbaru"]
	}

	var rows []CustomerSummary
	err := q.Select("customers.*, " +
		"(SELECT COUNT(*) FROM orders WHERE orders.customer_id = customers.id) AS order_count, " +
		"(SELECT COUNT(*) FROM measurements WHERE measurements.customer_id = customers.id) AS measurement_count").
		Order(order).
		Offset(p.Offset()).
		Limit(p.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return rows, total, nil
}

// Get loads a customer with measurements and the five latest orders.
func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Preload("Measurements", func(db *gorm.DB) *gorm.DB { return db.Order("garment_type_id, code") }).
		Preload("Measurements.GarmentType").
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("entry_date DESC").Limit(5) }).
		First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Pelanggan tidak ditemukan")
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &customer, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	var customer *models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		customer, err = createCustomer(tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// createCustomer validates, checks duplicates and inserts within tx. The order
// wizard reuses it for inline new customers.
func createCustomer(tx *gorm.DB, in CustomerInput) (*models.Customer, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" || in.Gender == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, validationError("Nama lengkap, jenis kelamin, dan nomor WA harus diisi")
	}
	if !models.ValidGender(in.Gender) {
		return nil, validationError("Jenis kelamin harus L atau P")
	}
	phone := utils.FormatPhoneNumber(in.Phone)
	if !utils.ValidatePhone(phone) {
		return nil, validationError("Format nomor WA tidak valid")
	}

	var existing models.Customer
	err := tx.Where("LOWER(full_name) = ? OR phone = ?", strings.ToLower(in.FullName), phone).
		First(&existing).Error
	if err == nil {
		field := "nomor WA"
		if strings.EqualFold(existing.FullName, in.FullName) {
			field = "nama"
		}
		e := conflictError("Pelanggan dengan %s ini sudah terdaftar", field)
		e.Fields = map[string]any{"existingId": existing.ID, "existingNama": existing.FullName}
		return nil, e
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check duplicate customer: %w", err)
	}

	id, err := allocateID(tx, customerIDs)
	if err != nil {
		return nil, err
	}

	customer := models.Customer{
		ID:       id,
		FullName: in.FullName,
		Gender:   in.Gender,
		Phone:    phone,
		Email:    optionalString(in.Email),
		Address:  optionalString(in.Address),
		Notes:    optionalString(in.Notes),
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in UpdateCustomerInput) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Pelanggan tidak ditemukan")
			}
			return fmt.Errorf("get customer: %w", err)
		}

		if in.FullName != nil && strings.TrimSpace(*in.FullName) != "" {
			customer.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.Gender != nil && *in.Gender != "" {
			if !models.ValidGender(*in.Gender) {
				return validationError("Jenis kelamin harus L atau P")
			}
			customer.Gender = *in.Gender
		}
		if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
			phone := utils.FormatPhoneNumber(*in.Phone)
			if !utils.ValidatePhone(phone) {
				return validationError("Format nomor WA tidak valid")
			}
			if phone != customer.Phone {
				var count int64
				if err := tx.Model(&models.Customer{}).Where("phone = ? AND id <> ?", phone, id).Count(&count).Error; err != nil {
					return fmt.Errorf("check duplicate phone: %w", err)
				}
				if count > 0 {
					return conflictError("Pelanggan lain dengan nomor WA ini sudah terdaftar")
				}
			}
			customer.Phone = phone
		}
		if in.Email != nil {
			customer.Email = optionalString(*in.Email)
		}
		if in.Address != nil {
			customer.Address = optionalString(*in.Address)
		}
		if in.Notes != nil {
			customer.Notes = optionalString(*in.Notes)
		}

		if err := tx.Save(&customer).Error; err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Delete removes a customer and their measurements. Customers with orders are
// kept.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Pelanggan tidak ditemukan")
			}
			return fmt.Errorf("get customer: %w", err)
		}

		var orders int64
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return fmt.Errorf("count customer orders: %w", err)
		}
		if orders > 0 {
			return validationError("Tidak bisa menghapus pelanggan yang sudah memiliki %d pesanan. Hapus pesanan terlebih dahulu.", orders)
		}

		if err := tx.Where("customer_id = ?", id).Delete(&models.MeasurementHistory{}).Error; err != nil {
			return fmt.Errorf("delete measurement history: %w", err)
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Measurement{}).Error; err != nil {
			return fmt.Errorf("delete measurements: %w", err)
		}
		if err := tx.Delete(&customer).Error; err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return nil
	})
}

func customerExists(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if count == 0 {
		return notFoundError("Pelanggan tidak ditemukan")
	}
	return nil
}
