package services

import (
	"context"
	"fmt"

	"penjahit-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

func str(s string) *string { return &s }

var seedGarments = []models.GarmentType{
	{ID: "JP001", Name: "Kemeja Pria", Category: models.CategoryTop, ForGender: models.GenderMale, StartingPrice: 150000, Description: str("Kemeja lengan panjang/pendek untuk pria")},
	{ID: "JP002", Name: "Kemeja Wanita / Blouse", Category: models.CategoryTop, ForGender: models.GenderFemale, StartingPrice: 150000, Description: str("Kemeja atau blouse untuk wanita")},
	{ID: "JP003", Name: "Gamis Wanita", Category: models.CategoryDress, ForGender: models.GenderFemale, StartingPrice: 200000, Description: str("Gamis panjang untuk wanita")},
	{ID: "JP004", Name: "Kebaya", Category: models.CategoryFormal, ForGender: models.GenderFemale, StartingPrice: 250000, Description: str("Kebaya untuk acara formal")},
	{ID: "JP005", Name: "Celana Panjang Pria", Category: models.CategoryBottom, ForGender: models.GenderMale, StartingPrice: 120000, Description: str("Celana panjang untuk pria")},
	{ID: "JP006", Name: "Celana Panjang Wanita", Category: models.CategoryBottom, ForGender: models.GenderFemale, StartingPrice: 120000, Description: str("Celana panjang untuk wanita")},
	{ID: "JP007", Name: "Rok Panjang", Category: models.CategoryBottom, ForGender: models.GenderFemale, StartingPrice: 100000, Description: str("Rok panjang untuk wanita")},
	{ID: "JP008", Name: "Seragam Sekolah", Category: models.CategoryFormal, ForGender: models.GenderTagUnisex, StartingPrice: 100000, Description: str("Seragam sekolah tergantung institusi")},
	{ID: "JP009", Name: "Seragam Kantor", Category: models.CategoryFormal, ForGender: models.GenderTagUnisex, StartingPrice: 150000, Description: str("Seragam kantor custom")},
}

func seedTemplate(rows ...[2]string) []TemplateInput {
	out := make([]TemplateInput, len(rows))
	for i, r := range rows {
		out[i] = TemplateInput{Code: r[0], Name: r[1]}
	}
	return out
}

var seedTemplates = map[string][]TemplateInput{
	"JP001": seedTemplate(
		[2]string{"LL", "Lingkar Leher"},
		[2]string{"LB", "Lebar Bahu"},
		[2]string{"LD", "Lingkar Dada"},
		[2]string{"LP", "Lingkar Pinggang"},
		[2]string{"PB", "Panjang Baju"},
		[2]string{"PL", "Panjang Lengan"},
		[2]string{"LL2", "Lingkar Lengan"},
	),
	"JP003": func() []TemplateInput {
		t := seedTemplate(
			[2]string{"LD", "Lingkar Dada"},
			[2]string{"LP", "Lingkar Pinggang"},
			[2]string{"LPg", "Lingkar Pinggul"},
			[2]string{"PB", "Panjang Baju"},
			[2]string{"PL", "Panjang Lengan"},
			[2]string{"LBh", "Lebar Bahu"},
			[2]string{"LL", "Lingkar Lengan"},
			[2]string{"JPD", "Jarak Payudara"},
		)
		optional := false
		t[7].IsRequired = &optional
		return t
	}(),
	"JP005": seedTemplate(
		[2]string{"LP", "Lingkar Pinggang"},
		[2]string{"LPg", "Lingkar Pinggul"},
		[2]string{"PC", "Panjang Celana"},
		[2]string{"LPh", "Lingkar Paha"},
		[2]string{"LK", "Lingkar Lutut"},
		[2]string{"LKk", "Lingkar Kaki"},
	),
}

// Seed installs the default admin, the garment catalogue and the starter
// measurement sheets. Existing rows are left untouched, so it can run on every
// deploy.
func Seed(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	db = db.WithContext(ctx)

	admin := models.User{Username: DefaultAdminUsername}
	err := db.Where(models.User{Username: DefaultAdminUsername}).
		Attrs(models.User{Password: DefaultAdminPassword, FullName: "Administrator"}).
		FirstOrCreate(&admin).Error
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("admin user ready", zap.String("username", admin.Username))

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, g := range seedGarments {
			garment := g
			if err := tx.Where(models.GarmentType{ID: g.ID}).FirstOrCreate(&garment).Error; err != nil {
				return fmt.Errorf("seed garment %s: %w", g.ID, err)
			}
		}
		return syncSequence(tx, garmentIDs)
	})
	if err != nil {
		return err
	}
	logger.Info("garment types seeded", zap.Int("count", len(seedGarments)))

	garments := NewGarmentService(db)
	for id, templates := range seedTemplates {
		var count int64
		if err := db.Model(&models.MeasurementTemplate{}).Where("garment_type_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("check templates %s: %w", id, err)
		}
		if count > 0 {
			continue
		}
		if _, err := garments.ReplaceTemplates(ctx, id, templates); err != nil {
			return fmt.Errorf("seed templates %s: %w", id, err)
		}
		logger.Info("measurement templates seeded", zap.String("idJenis", id), zap.Int("count", len(templates)))
	}
	return nil
}
