package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MaterialInput struct {
	Name      string `json:"namaBahan"`
	Quantity  int    `json:"qty"`
	UnitPrice int64  `json:"harga"`
}

type OrderLineInput struct {
	GarmentTypeID string          `json:"idJenis"`
	ItemName      string          `json:"namaItem"`
	Style         string          `json:"modelSpesifik"`
	Quantity      int             `json:"jumlahPcs"`
	UnitPrice     int64           `json:"hargaSatuan"`
	TailorNote    string          `json:"catatanPenjahit"`
	Materials     []MaterialInput `json:"tambahanBahan"`
}

type CreateOrderInput struct {
	CustomerID        string               `json:"idPelanggan"`
	NewCustomer       *CustomerInput       `json:"pelangganBaru"`
	EntryDate         *utils.Date          `json:"tglMasuk"`
	PromisedDate      *utils.Date          `json:"tglJanjiSelesai"`
	DownPayment       int64                `json:"totalDp"`
	DownPaymentMethod models.PaymentMethod `json:"metodeDp" binding:"omitempty,paymethod"`
	Note              string               `json:"catatanPesanan"`
	Lines             []OrderLineInput     `json:"detailPesanan"`
}

type UpdateOrderInput struct {
	PromisedDate *utils.Date `json:"tglJanjiSelesai"`
	Note         *string     `json:"catatanPesanan"`
}

type ChangeStatusInput struct {
	Status models.OrderStatus `json:"statusBaru" binding:"omitempty,orderstatus"`
	Note   string             `json:"catatanPerubahan"`
}

type OrderListParams struct {
	utils.PageParams
	Search string
	Status string
	SortBy string
}

// OrderSummary is a list row: the order header, its customer and child counts.
type OrderSummary struct {
	models.Order
	LineCount    int64 `json:"jumlahItem"`
	PaymentCount int64 `json:"jumlahPembayaran"`
}

var orderSorts = map[string]string{
	"terbaru":      "entry_date DESC",
	"terlama":      "entry_date ASC",
	"total-tinggi": "total_cost DESC",
	"total-rendah": "total_cost ASC",
}

// OrderNotifier is told about orders that just became ready for pickup.
type OrderNotifier interface {
	OrderReady(ctx context.Context, noNota string) error
}

// readyNotifyTimeout bounds one "order ready" delivery running after the
// status change has been answered.
const readyNotifyTimeout = 30 * time.Second

type OrderService struct {
	db       *gorm.DB
	notifier OrderNotifier
	logger   *zap.Logger
	now      func() time.Time
	pending  sync.WaitGroup
}

// NewOrderService wires the order workflows. notifier may be nil.
func NewOrderService(db *gorm.DB, notifier OrderNotifier, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{db: db, notifier: notifier, logger: logger, now: time.Now}
}

func (s *OrderService) List(ctx context.Context, p OrderListParams) ([]OrderSummary, int64, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&models.Order{})
	if p.Search != "" {
		like := likePattern(p.Search)
		q = q.Where("LOWER(no_nota) LIKE ? OR customer_id IN (?)", like,
			db.Model(&models.Customer{}).Select("id").Where("LOWER(full_name) LIKE ?", like))
	}
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	order, ok := orderSorts[p.SortBy]
	if !ok {
		order = orderSorts["terbaru"]
	}

	var orders []models.Order
	err := q.Preload("Customer", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "full_name", "phone", "gender")
	}).
		Order(order).
		Order("no_nota DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	notas := make([]string, len(orders))
	for i, o := range orders {
		notas[i] = o.NoNota
	}
	lineCounts, err := countByNota(db, &models.OrderLine{}, notas)
	if err != nil {
		return nil, 0, err
	}
	paymentCounts, err := countByNota(db, &models.Payment{}, notas)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]OrderSummary, len(orders))
	for i, o := range orders {
		rows[i] = OrderSummary{
			Order:        o,
			LineCount:    lineCounts[o.NoNota],
			PaymentCount: paymentCounts[o.NoNota],
		}
	}
	return rows, total, nil
}

func countByNota(db *gorm.DB, model any, notas []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(notas))
	if len(notas) == 0 {
		return counts, nil
	}
	var rows []struct {
		NoNota string
		Total  int64
	}
	err := db.Model(model).
		Select("no_nota, COUNT(*) AS total").
		Where("no_nota IN ?", notas).
		Group("no_nota").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count order children: %w", err)
	}
	for _, r := range rows {
		counts[r.NoNota] = r.Total
	}
	return counts, nil
}

// Get loads the full order aggregate.
func (s *OrderService) Get(ctx context.Context, noNota string) (*models.Order, error) {
	return loadOrder(s.db.WithContext(ctx), noNota)
}

func loadOrder(db *gorm.DB, noNota string) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Customer").
		Preload("User").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.GarmentType").
		Preload("Lines.Materials", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC, id ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("History.User").
		First(&order, "no_nota = ?", noNota).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Pesanan tidak ditemukan")
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// Create builds an order with its lines, materials, first status entry and
// optional down payment in one transaction.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (*models.Order, error) {
	promised, ok := in.PromisedDate.Get()
	if (in.CustomerID == "" && in.NewCustomer == nil) || !ok || len(in.Lines) == 0 {
		return nil, validationError("Data pesanan tidak lengkap")
	}
	entry, ok := in.EntryDate.Get()
	if !ok {
		entry = s.now()
	}
	if err := checkPromisedDate(entry, promised); err != nil {
		return nil, err
	}
	if in.DownPayment < 0 {
		return nil, validationError("DP tidak boleh negatif")
	}
	method := in.DownPaymentMethod
	if method == "" {
		method = models.MethodCash
	}
	if !method.Valid() {
		return nil, validationError("Metode pembayaran tidak valid")
	}

	lines := make([]models.OrderLine, len(in.Lines))
	var total int64
	for i, l := range in.Lines {
		if strings.TrimSpace(l.GarmentTypeID) == "" {
			return nil, validationError("Jenis pakaian harus diisi (item %d)", i+1)
		}
		qty := l.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, validationError("Jumlah pcs harus minimal 1 (item %d)", i+1)
		}
		if l.UnitPrice < 0 {
			return nil, validationError("Harga satuan tidak boleh negatif (item %d)", i+1)
		}

		subtotal, ok := mulAmount(l.UnitPrice, qty)
		if !ok {
			return nil, amountTooLarge()
		}
		line := models.OrderLine{
			GarmentTypeID: l.GarmentTypeID,
			ItemName:      strings.TrimSpace(l.ItemName),
			Style:         optionalString(l.Style),
			Quantity:      qty,
			UnitPrice:     l.UnitPrice,
			Subtotal:      subtotal,
			TailorNote:    optionalString(l.TailorNote),
		}
		if total, ok = addAmount(total, subtotal); !ok {
			return nil, amountTooLarge()
		}

		for _, m := range l.Materials {
			material, err := buildMaterial(m)
			if err != nil {
				return nil, err
			}
			line.Materials = append(line.Materials, material)
			if total, ok = addAmount(total, material.Subtotal); !ok {
				return nil, amountTooLarge()
			}
		}
		lines[i] = line
	}
	if in.DownPayment > total {
		return nil, validationError("DP (%s) melebihi total biaya (%s)",
			utils.FormatRupiah(in.DownPayment), utils.FormatRupiah(total))
	}

	var noNota string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customerID := in.CustomerID
		if customerID == "" {
			customer, err := createCustomer(tx, *in.NewCustomer)
			if err != nil {
				return err
			}
			customerID = customer.ID
		} else if err := customerExists(tx, customerID); err != nil {
			return err
		}

		for i := range lines {
			var garment models.GarmentType
			if err := tx.Select("id", "name").First(&garment, "id = ?", lines[i].GarmentTypeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFoundError("Jenis pakaian %s tidak ditemukan", lines[i].GarmentTypeID)
				}
				return fmt.Errorf("get garment type: %w", err)
			}
			if lines[i].ItemName == "" {
				lines[i].ItemName = garment.Name
			}
		}

		var err error
		noNota, err = allocateID(tx, notaIDs)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].NoNota = noNota
		}

		order := models.Order{
			NoNota:           noNota,
			CustomerID:       customerID,
			UserID:           userID,
			EntryDate:        entry,
			PromisedDate:     promised,
			TotalCost:        total,
			DownPayment:      in.DownPayment,
			RemainingBalance: total - in.DownPayment,
			Status:           models.StatusQueued,
			Note:             optionalString(in.Note),
			Lines:            lines,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		created := "Pesanan dibuat"
		history := models.StatusHistory{
			NoNota:    noNota,
			NewStatus: models.StatusQueued,
			UserID:    userID,
			Note:      &created,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("create status history: %w", err)
		}

		if in.DownPayment > 0 {
			payment := models.Payment{
				NoNota: noNota,
				Amount: in.DownPayment,
				Kind:   models.PaymentDownPayment,
				Method: method,
				PaidAt: entry,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return fmt.Errorf("create down payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("noNota", noNota),
		zap.Int64("totalCost", total),
		zap.Int("lines", len(lines)))
	return loadOrder(s.db.WithContext(ctx), noNota)
}

func buildMaterial(in MaterialInput) (models.ExtraMaterial, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.ExtraMaterial{}, validationError("Nama bahan harus diisi")
	}
	if in.Quantity < 1 {
		return models.ExtraMaterial{}, validationError("Qty bahan harus minimal 1")
	}
	if in.UnitPrice < 0 {
		return models.ExtraMaterial{}, validationError("Harga bahan tidak boleh negatif")
	}
	subtotal, ok := mulAmount(in.UnitPrice, in.Quantity)
	if !ok {
		return models.ExtraMaterial{}, amountTooLarge()
	}
	return models.ExtraMaterial{
		Name:      name,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Subtotal:  subtotal,
	}, nil
}

// checkPromisedDate rejects a promised date on a day before the entry day.
func checkPromisedDate(entry, promised time.Time) error {
	if utils.BeginningOfDay(promised).Before(utils.BeginningOfDay(entry)) {
		return validationError("Tanggal janji selesai tidak boleh sebelum tanggal masuk")
	}
	return nil
}

// UpdateHeader edits the promised date and note. Money and lines are changed
// through payments and materials only.
func (s *OrderService) UpdateHeader(ctx context.Context, noNota string, in UpdateOrderInput) (*models.Order, error) {
	db := s.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := forUpdate(tx).First(&order, "no_nota = ?", noNota).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Pesanan tidak ditemukan")
			}
			return fmt.Errorf("get order: %w", err)
		}

		updates := map[string]any{}
		if t, ok := in.PromisedDate.Get(); ok {
			if err := checkPromisedDate(order.EntryDate, t); err != nil {
				return err
			}
			updates["promised_date"] = t
		}
		if in.Note != nil {
			updates["note"] = optionalString(*in.Note)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loadOrder(db, noNota)
}

// Delete removes an order and everything under it. Picked-up orders stay.
func (s *OrderService) Delete(ctx context.Context, noNota string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := forUpdate(tx).First(&order, "no_nota = ?", noNota).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Pesanan tidak ditemukan")
			}
			return fmt.Errorf("get order: %w", err)
		}
		if order.Status == models.StatusPickedUp {
			return validationError("Tidak bisa menghapus pesanan yang sudah diambil")
		}

		lineIDs := tx.Model(&models.OrderLine{}).Select("id").Where("no_nota = ?", noNota)
		if err := tx.Where("order_line_id IN (?)", lineIDs).Delete(&models.ExtraMaterial{}).Error; err != nil {
			return fmt.Errorf("delete materials: %w", err)
		}
		for _, model := range []any{&models.OrderLine{}, &models.Payment{}, &models.StatusHistory{}, &models.NotificationLog{}} {
			if err := tx.Where("no_nota = ?", noNota).Delete(model).Error; err != nil {
				return fmt.Errorf("delete order children: %w", err)
			}
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
}

// ChangeStatus moves an order along the production pipeline and appends the
// transition to its history. Reaching SELESAI notifies the customer after the
// transaction commits; a failed notification does not fail the call.
func (s *OrderService) ChangeStatus(ctx context.Context, noNota string, userID uint, in ChangeStatusInput) (*models.Order, error) {
	if in.Status == "" {
		return nil, validationError("Status baru harus diisi")
	}
	if !in.Status.Valid() {
		return nil, validationError("Status %s tidak valid", in.Status)
	}

	db := s.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := forUpdate(tx).First(&order, "no_nota = ?", noNota).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Pesanan tidak ditemukan")
			}
			return fmt.Errorf("get order: %w", err)
		}
		if !CanTransition(order.Status, in.Status) {
			return conflictError("Status tidak bisa diubah dari %s ke %s", order.Status, in.Status)
		}

		updates := map[string]any{"status": in.Status}
		if in.Status == models.StatusCompleted {
			updates["completed_at"] = s.now()
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		previous := order.Status
		history := models.StatusHistory{
			NoNota:         noNota,
			PreviousStatus: &previous,
			NewStatus:      in.Status,
			UserID:         userID,
			Note:           optionalString(in.Note),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("create status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("noNota", noNota),
		zap.String("status", string(in.Status)),
		zap.Uint("userId", userID))

	if in.Status == models.StatusCompleted && s.notifier != nil {
		s.notifyReady(ctx, noNota)
	}
	return loadOrder(db, noNota)
}

// notifyReady delivers the "ready for pickup" message in the background. The
// delivery outlives the request context but not readyNotifyTimeout.
func (s *OrderService) notifyReady(ctx context.Context, noNota string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readyNotifyTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.notifier.OrderReady(ctx, noNota); err != nil {
			s.logger.Warn("order ready notification failed", zap.String("noNota", noNota), zap.Error(err))
		}
	}()
}

// StatusHistory lists the transitions of an order, newest first.
func (s *OrderService) StatusHistory(ctx context.Context, noNota string) ([]models.StatusHistory, error) {
	db := s.db.WithContext(ctx)
	if err := orderExists(db, noNota); err != nil {
		return nil, err
	}
	var rows []models.StatusHistory
	err := db.Preload("User").
		Where("no_nota = ?", noNota).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return rows, nil
}

func orderExists(tx *gorm.DB, noNota string) error {
	var count int64
	if err := tx.Model(&models.Order{}).Where("no_nota = ?", noNota).Count(&count).Error; err != nil {
		return fmt.Errorf("check order: %w", err)
	}
	if count == 0 {
		return notFoundError("Pesanan tidak ditemukan")
	}
	return nil
}
