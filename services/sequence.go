package services

import (
	"fmt"
	"strconv"

	"penjahit-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// idClass describes one family of human-readable identifiers.
type idClass struct {
	name   string
	prefix string
	width  int
	table  string
	column string
}

var (
	customerIDs = idClass{name: "customer", prefix: "P", width: 4, table: "customers", column: "id"}
	garmentIDs  = idClass{name: "garment_type", prefix: "JP", width: 3, table: "garment_types", column: "id"}
	notaIDs     = idClass{name: "order", prefix: "NT", width: 5, table: "orders", column: "no_nota"}
)

// formatID zero-pads n to width. Numbers wider than width are kept whole, so
// P9999 is followed by P10000.
func formatID(prefix string, width int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

func trailingNumber(id string) int64 {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	n, err := strconv.ParseInt(id[i:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// allocateID issues the next identifier of class inside tx. The counter row
// is bumped with a single UPDATE, so concurrent transactions queue on its row
// lock instead of reading the same "last id".
func allocateID(tx *gorm.DB, class idClass) (string, error) {
	if err := ensureSequence(tx, class); err != nil {
		return "", err
	}

	res := tx.Model(&models.IDSequence{}).
		Where("name = ?", class.name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("bump %s sequence: %w", class.name, res.Error)
	}

	var seq models.IDSequence
	if err := tx.Where("name = ?", class.name).First(&seq).Error; err != nil {
		return "", fmt.Errorf("read %s sequence: %w", class.name, err)
	}
	return formatID(class.prefix, class.width, seq.Value), nil
}

// ensureSequence creates the counter row on first use, starting from the
// highest identifier already stored so existing data keeps its numbering.
func ensureSequence(tx *gorm.DB, class idClass) error {
	var count int64
	if err := tx.Model(&models.IDSequence{}).Where("name = ?", class.name).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s sequence: %w", class.name, err)
	}
	if count > 0 {
		return nil
	}

	last, err := lastID(tx, class)
	if err != nil {
		return err
	}

	seq := models.IDSequence{Name: class.name, Value: trailingNumber(last)}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return fmt.Errorf("create %s sequence: %w", class.name, err)
	}
	return nil
}

// syncSequence raises the counter of class to at least the highest stored id.
// It is needed after rows were inserted with explicit ids.
func syncSequence(tx *gorm.DB, class idClass) error {
	if err := ensureSequence(tx, class); err != nil {
		return err
	}
	last, err := lastID(tx, class)
	if err != nil {
		return err
	}
	err = tx.Model(&models.IDSequence{}).
		Where("name = ? AND value < ?", class.name, trailingNumber(last)).
		Update("value", trailingNumber(last)).Error
	if err != nil {
		return fmt.Errorf("sync %s sequence: %w", class.name, err)
	}
	return nil
}

// lastID returns the highest stored id of class. Longer ids sort first so
// P10000 beats P9999.
func lastID(tx *gorm.DB, class idClass) (string, error) {
	var last string
	err := tx.Table(class.table).
		Select(class.column).
		Order(fmt.Sprintf("LENGTH(%s) DESC, %s DESC", class.column, class.column)).
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", fmt.Errorf("find last %s id: %w", class.name, err)
	}
	return last, nil
}
