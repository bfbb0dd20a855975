package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"penjahit-backend/models"

	"gorm.io/gorm"
)

type MeasurementValue struct {
	Code  string  `json:"kodeUkuran" binding:"required"`
	Value float64 `json:"nilai" binding:"gte=0"`
}

type SaveMeasurementsInput struct {
	GarmentTypeID string             `json:"idJenis" binding:"required"`
	Values        []MeasurementValue `json:"ukuran" binding:"required,dive"`
	Note          string             `json:"catatan"`
}

type MeasurementService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMeasurementService(db *gorm.DB) *MeasurementService {
	return &MeasurementService{db: db, now: time.Now}
}

// ListByCustomer returns every stored measurement of a customer, newest first.
func (s *MeasurementService) ListByCustomer(ctx context.Context, customerID string) ([]models.Measurement, error) {
	db := s.db.WithContext(ctx)
	if err := customerExists(db, customerID); err != nil {
		return nil, err
	}
	var rows []models.Measurement
	err := db.Preload("GarmentType").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return rows, nil
}

func (s *MeasurementService) ListByCustomerGarment(ctx context.Context, customerID, garmentID string) ([]models.Measurement, error) {
	var rows []models.Measurement
	err := s.db.WithContext(ctx).Preload("GarmentType").
		Where("customer_id = ? AND garment_type_id = ?", customerID, garmentID).
		Order("code ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return rows, nil
}

// Save upserts the given values for one customer and garment type. A changed
// value leaves a MeasurementHistory row behind.
func (s *MeasurementService) Save(ctx context.Context, customerID string, in SaveMeasurementsInput) ([]models.Measurement, error) {
	if strings.TrimSpace(in.GarmentTypeID) == "" || in.Values == nil {
		return nil, validationError("ID jenis pakaian dan data ukuran harus diisi")
	}
	for _, v := range in.Values {
		if strings.TrimSpace(v.Code) == "" {
			return nil, validationError("Kode ukuran harus diisi")
		}
		if v.Value < 0 {
			return nil, validationError("Nilai ukuran %s tidak boleh negatif", v.Code)
		}
	}

	measuredAt := s.now()
	note := optionalString(in.Note)
	var saved []models.Measurement

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := customerExists(tx, customerID); err != nil {
			return err
		}
		if err := garmentExists(tx, in.GarmentTypeID); err != nil {
			return err
		}

		templates, err := listTemplates(tx, in.GarmentTypeID)
		if err != nil {
			return err
		}
		if len(templates) > 0 {
			known := make(map[string]bool, len(templates))
			for _, t := range templates {
				known[t.Code] = true
			}
			for _, v := range in.Values {
				if !known[strings.TrimSpace(v.Code)] {
					return validationError("Kode ukuran %s tidak ada di template jenis pakaian ini", v.Code)
				}
			}
		}

		for _, v := range in.Values {
			code := strings.TrimSpace(v.Code)
			var m models.Measurement
			err := tx.Where("customer_id = ? AND garment_type_id = ? AND code = ?", customerID, in.GarmentTypeID, code).
				First(&m).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				m = models.Measurement{
					CustomerID:    customerID,
					GarmentTypeID: in.GarmentTypeID,
					Code:          code,
				}
			case err != nil:
				return fmt.Errorf("get measurement: %w", err)
			case m.Value != v.Value:
				history := models.MeasurementHistory{
					CustomerID:    customerID,
					GarmentTypeID: in.GarmentTypeID,
					Code:          code,
					OldValue:      m.Value,
					NewValue:      v.Value,
					Note:          note,
				}
				if err := tx.Create(&history).Error; err != nil {
					return fmt.Errorf("create measurement history: %w", err)
				}
			}

			m.Value = v.Value
			m.Note = note
			m.MeasuredAt = measuredAt
			if err := tx.Omit("GarmentType").Save(&m).Error; err != nil {
				return fmt.Errorf("save measurement %s: %w", code, err)
			}
			saved = append(saved, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// History lists value changes for one customer and garment type, newest first.
func (s *MeasurementService) History(ctx context.Context, customerID, garmentID string) ([]models.MeasurementHistory, error) {
	var rows []models.MeasurementHistory
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND garment_type_id = ?", customerID, garmentID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list measurement history: %w", err)
	}
	return rows, nil
}
