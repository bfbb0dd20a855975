package services

import (
	"context"
	"errors"
	"fmt"

	"penjahit-backend/models"

	"gorm.io/gorm"
)

type AddMaterialInput struct {
	OrderLineID uint `json:"idDetail" binding:"required"`
	MaterialInput
}

// MaterialService manages extra materials added to an order line after the
// order was created. Every change is billed: the order's total and remaining
// balance move by the material subtotal in the same transaction.
type MaterialService struct {
	db *gorm.DB
}

func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{db: db}
}

func (s *MaterialService) Add(ctx context.Context, in AddMaterialInput) (*models.ExtraMaterial, error) {
	material, err := buildMaterial(in.MaterialInput)
	if err != nil {
		return nil, err
	}
	material.OrderLineID = in.OrderLineID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrderOfLine(tx, in.OrderLineID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return validationError("Pesanan dengan status %s tidak bisa diubah", order.Status)
		}
		if err := tx.Create(&material).Error; err != nil {
			return fmt.Errorf("create material: %w", err)
		}
		return adjustOrderTotal(tx, order, material.Subtotal)
	})
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (s *MaterialService) ListByLine(ctx context.Context, lineID uint) ([]models.ExtraMaterial, error) {
	var rows []models.ExtraMaterial
	if err := s.db.WithContext(ctx).Where("order_line_id = ?", lineID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return rows, nil
}

// Remove deletes a material unless doing so would leave the customer having
// paid more than the new total.
func (s *MaterialService) Remove(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var material models.ExtraMaterial
		if err := tx.First(&material, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Tambahan bahan tidak ditemukan")
			}
			return fmt.Errorf("get material: %w", err)
		}
		order, err := lockOrderOfLine(tx, material.OrderLineID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return validationError("Pesanan dengan status %s tidak bisa diubah", order.Status)
		}
		if order.RemainingBalance-material.Subtotal < 0 {
			return validationError("Tambahan bahan tidak bisa dihapus karena sudah dibayar")
		}
		if err := tx.Delete(&material).Error; err != nil {
			return fmt.Errorf("delete material: %w", err)
		}
		return adjustOrderTotal(tx, order, -material.Subtotal)
	})
}

func lockOrderOfLine(tx *gorm.DB, lineID uint) (*models.Order, error) {
	var line models.OrderLine
	if err := tx.Select("id", "no_nota").First(&line, lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Detail pesanan tidak ditemukan")
		}
		return nil, fmt.Errorf("get order line: %w", err)
	}
	var order models.Order
	if err := forUpdate(tx).First(&order, "no_nota = ?", line.NoNota).Error; err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// adjustOrderTotal moves the order's total and remaining balance by delta.
// Callers keep both non-negative; growth is checked for overflow here.
func adjustOrderTotal(tx *gorm.DB, order *models.Order, delta int64) error {
	total, remaining := order.TotalCost+delta, order.RemainingBalance+delta
	if delta > 0 {
		var ok bool
		if total, ok = addAmount(order.TotalCost, delta); !ok {
			return amountTooLarge()
		}
		if remaining, ok = addAmount(order.RemainingBalance, delta); !ok {
			return amountTooLarge()
		}
	}
	err := tx.Model(order).Updates(map[string]any{
		"total_cost":        total,
		"remaining_balance": remaining,
	}).Error
	if err != nil {
		return fmt.Errorf("adjust order total: %w", err)
	}
	return nil
}
