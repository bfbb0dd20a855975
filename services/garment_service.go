package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"gorm.io/gorm"
)

type GarmentInput struct {
	Name          string  `json:"namaJenis"`
	Category      string  `json:"kategori" binding:"omitempty,garmentcategory"`
	ForGender     string  `json:"untukGender" binding:"omitempty,gendertag"`
	StartingPrice *int64  `json:"hargaMulaiDari" binding:"omitempty,min=0"`
	Description   *string `json:"deskripsi"`
	// Keterangan is the older client's name for Description.
	Keterangan *string `json:"keterangan"`
}

func (in GarmentInput) description() *string {
	if in.Description != nil {
		return in.Description
	}
	return in.Keterangan
}

type TemplateInput struct {
	Code       string `json:"kodeUkuran"`
	Name       string `json:"namaUkuran"`
	Unit       string `json:"satuan"`
	SortOrder  *int   `json:"urutan"`
	IsRequired *bool  `json:"isRequired"`
}

// GarmentSummary is a list row with usage counts.
type GarmentSummary struct {
	models.GarmentType
	TemplateCount    int64 `json:"jumlahTemplate"`
	MeasurementCount int64 `json:"jumlahUkuran"`
}

type GarmentService struct {
	db *gorm.DB
}

func NewGarmentService(db *gorm.DB) *GarmentService {
	return &GarmentService{db: db}
}

type GarmentListParams struct {
	utils.PageParams
	Search   string
	Category string
	SortBy   string
}

var garmentSorts = map[string]string{
	"nama-az":      "name ASC",
	"nama-za":      "name DESC",
	"harga-rendah": "starting_price ASC",
	"harga-tinggi": "starting_price DESC",
	"terbaru":      "created_at DESC",
}

func (s *GarmentService) List(ctx context.Context, p GarmentListParams) ([]GarmentSummary, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.GarmentType{})
	if p.Search != "" {
		like := likePattern(p.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(id) LIKE ?", like, like)
	}
	if p.Category != "" {
		q = q.Where("category = ?", p.Category)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count garment types: %w", err)
	}

	order, ok := garmentSorts[p.SortBy]
	if !ok {
		order = garmentSorts["nama-az"]
	}

	var rows []GarmentSummary
	err := q.Select("garment_types.*, " +
		"(SELECT COUNT(*) FROM measurement_templates t WHERE t.garment_type_id = garment_types.id) AS template_count, " +
		"(SELECT COUNT(*) FROM measurements m WHERE m.garment_type_id = garment_types.id) AS measurement_count").
		Order(order).
		Offset(p.Offset()).
		Limit(p.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list garment types: %w", err)
	}
	return rows, total, nil
}

func (s *GarmentService) Get(ctx context.Context, id string) (*models.GarmentType, error) {
	var garment models.GarmentType
	err := s.db.WithContext(ctx).
		Preload("Templates", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		First(&garment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Jenis pakaian tidak ditemukan")
		}
		return nil, fmt.Errorf("get garment type: %w", err)
	}
	return &garment, nil
}

func (s *GarmentService) Create(ctx context.Context, in GarmentInput) (*models.GarmentType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("Nama jenis pakaian harus diisi")
	}
	category := in.Category
	if category == "" {
		category = models.CategoryTop
	}
	if !models.ValidCategory(category) {
		return nil, validationError("Kategori tidak valid")
	}
	gender := in.ForGender
	if gender == "" {
		gender = models.GenderTagUnisex
	}
	if !models.ValidGenderTag(gender) {
		return nil, validationError("Gender tidak valid")
	}
	var price int64
	if in.StartingPrice != nil {
		if *in.StartingPrice < 0 {
			return nil, validationError("Harga tidak boleh negatif")
		}
		price = *in.StartingPrice
	}

	var garment models.GarmentType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGarmentNameFree(tx, name, ""); err != nil {
			return err
		}
		id, err := allocateID(tx, garmentIDs)
		if err != nil {
			return err
		}
		garment = models.GarmentType{
			ID:            id,
			Name:          name,
			Category:      category,
			ForGender:     gender,
			StartingPrice: price,
			Description:   in.description(),
		}
		if err := tx.Create(&garment).Error; err != nil {
			return fmt.Errorf("create garment type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &garment, nil
}

func (s *GarmentService) Update(ctx context.Context, id string, in GarmentInput) (*models.GarmentType, error) {
	var garment models.GarmentType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&garment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Jenis pakaian tidak ditemukan")
			}
			return fmt.Errorf("get garment type: %w", err)
		}

		if name := strings.TrimSpace(in.Name); name != "" && name != garment.Name {
			if err := ensureGarmentNameFree(tx, name, id); err != nil {
				return err
			}
			garment.Name = name
		}
		if in.Category != "" {
			if !models.ValidCategory(in.Category) {
				return validationError("Kategori tidak valid")
			}
			garment.Category = in.Category
		}
		if in.ForGender != "" {
			if !models.ValidGenderTag(in.ForGender) {
				return validationError("Gender tidak valid")
			}
			garment.ForGender = in.ForGender
		}
		if in.StartingPrice != nil {
			if *in.StartingPrice < 0 {
				return validationError("Harga tidak boleh negatif")
			}
			garment.StartingPrice = *in.StartingPrice
		}
		if d := in.description(); d != nil {
			garment.Description = optionalString(*d)
		}

		if err := tx.Omit("Templates").Save(&garment).Error; err != nil {
			return fmt.Errorf("update garment type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &garment, nil
}

// Delete removes an unused garment type together with its templates.
func (s *GarmentService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := garmentExists(tx, id); err != nil {
			return err
		}

		var measurements, lines int64
		if err := tx.Model(&models.Measurement{}).Where("garment_type_id = ?", id).Count(&measurements).Error; err != nil {
			return fmt.Errorf("count measurements: %w", err)
		}
		if err := tx.Model(&models.OrderLine{}).Where("garment_type_id = ?", id).Count(&lines).Error; err != nil {
			return fmt.Errorf("count order lines: %w", err)
		}
		if usage := measurements + lines; usage > 0 {
			return validationError("Tidak bisa menghapus jenis pakaian yang sudah digunakan (%d data terkait)", usage)
		}

		if err := tx.Where("garment_type_id = ?", id).Delete(&models.MeasurementTemplate{}).Error; err != nil {
			return fmt.Errorf("delete templates: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.GarmentType{}).Error; err != nil {
			return fmt.Errorf("delete garment type: %w", err)
		}
		return nil
	})
}

func (s *GarmentService) Templates(ctx context.Context, id string) ([]models.MeasurementTemplate, error) {
	db := s.db.WithContext(ctx)
	if err := garmentExists(db, id); err != nil {
		return nil, err
	}
	return listTemplates(db, id)
}

// ReplaceTemplates swaps the whole measurement sheet of a garment type. The
// old rows are deleted, not merged.
func (s *GarmentService) ReplaceTemplates(ctx context.Context, id string, in []TemplateInput) ([]models.MeasurementTemplate, error) {
	templates := make([]models.MeasurementTemplate, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, t := range in {
		code := strings.TrimSpace(t.Code)
		name := strings.TrimSpace(t.Name)
		if code == "" || name == "" {
			return nil, validationError("Kode dan nama ukuran harus diisi (baris %d)", i+1)
		}
		if seen[strings.ToUpper(code)] {
			return nil, validationError("Kode ukuran %s duplikat", code)
		}
		seen[strings.ToUpper(code)] = true

		tpl := models.MeasurementTemplate{
			GarmentTypeID: id,
			Code:          code,
			Name:          name,
			Unit:          "cm",
			SortOrder:     i + 1,
			IsRequired:    true,
		}
		if u := strings.TrimSpace(t.Unit); u != "" {
			tpl.Unit = u
		}
		if t.SortOrder != nil {
			tpl.SortOrder = *t.SortOrder
		}
		if t.IsRequired != nil {
			tpl.IsRequired = *t.IsRequired
		}
		templates = append(templates, tpl)
	}

	var saved []models.MeasurementTemplate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := garmentExists(tx, id); err != nil {
			return err
		}
		if err := tx.Where("garment_type_id = ?", id).Delete(&models.MeasurementTemplate{}).Error; err != nil {
			return fmt.Errorf("delete templates: %w", err)
		}
		if len(templates) > 0 {
			if err := tx.Create(&templates).Error; err != nil {
				return fmt.Errorf("create templates: %w", err)
			}
		}
		var err error
		saved, err = listTemplates(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func listTemplates(db *gorm.DB, garmentID string) ([]models.MeasurementTemplate, error) {
	var templates []models.MeasurementTemplate
	if err := db.Where("garment_type_id = ?", garmentID).Order("sort_order ASC, id ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func ensureGarmentNameFree(tx *gorm.DB, name, exceptID string) error {
	q := tx.Model(&models.GarmentType{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check garment name: %w", err)
	}
	if count > 0 {
		return conflictError("Jenis pakaian \"%s\" sudah ada", name)
	}
	return nil
}

func garmentExists(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&models.GarmentType{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check garment type: %w", err)
	}
	if count == 0 {
		return notFoundError("Jenis pakaian tidak ditemukan")
	}
	return nil
}
