package services

import (
	"context"
	"fmt"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"gorm.io/gorm"
)

const (
	DefaultChartMonths = 6
	DefaultChartDays   = 30
	maxChartMonths     = 36
	maxChartDays       = 366
)

type Overview struct {
	TotalOrders         int64   `json:"totalPesanan"`
	MonthRevenue        int64   `json:"revenueBulanIni"`
	RevenueGrowth       float64 `json:"pertumbuhanRevenue"`
	PendingOrders       int64   `json:"pesananPending"`
	CompletedToday      int64   `json:"pesananSelesaiHariIni"`
	NewCustomers        int64   `json:"pelangganBaru"`
	TodayRevenue        int64   `json:"omzetHariIni"`
	OutstandingBalances int64   `json:"totalPiutang"`
}

// ChartSeries feeds the dashboard charts: one value per label.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

// Overview computes the dashboard cards for [start, end]. Zero bounds default
// to the current month up to now.
func (s *AnalyticsService) Overview(ctx context.Context, start, end time.Time) (*Overview, error) {
	db := s.db.WithContext(ctx)
	now := s.now()
	if start.IsZero() {
		start = utils.BeginningOfMonth(now)
	}
	if end.IsZero() {
		end = now
	}
	todayStart := utils.BeginningOfDay(now)
	todayEnd := todayStart.AddDate(0, 0, 1)

	var out Overview
	var err error

	if err := db.Model(&models.Order{}).
		Where("entry_date >= ? AND entry_date <= ?", start, end).
		Count(&out.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	if out.MonthRevenue, err = s.revenue(db, start, end.Add(time.Nanosecond)); err != nil {
		return nil, err
	}
	// Previous period of the same length, for the growth badge.
	length := end.Sub(start)
	previous, err := s.revenue(db, start.Add(-length), start)
	if err != nil {
		return nil, err
	}
	out.RevenueGrowth = growthPercentage(out.MonthRevenue, previous)

	if err := db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.StatusQueued, models.StatusCutting, models.StatusSewing}).
		Count(&out.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}

	if err := db.Model(&models.Order{}).
		Where("status = ? AND completed_at >= ? AND completed_at < ?", models.StatusCompleted, todayStart, todayEnd).
		Count(&out.CompletedToday).Error; err != nil {
		return nil, fmt.Errorf("count completed orders: %w", err)
	}

	if err := db.Model(&models.Customer{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&out.NewCustomers).Error; err != nil {
		return nil, fmt.Errorf("count new customers: %w", err)
	}

	if out.TodayRevenue, err = s.revenue(db, todayStart, todayEnd); err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).
		Where("status <> ?", models.StatusCancelled).
		Select("COALESCE(SUM(remaining_balance), 0)").
		Scan(&out.OutstandingBalances).Error; err != nil {
		return nil, fmt.Errorf("sum outstanding balances: %w", err)
	}
	return &out, nil
}

// StatusDistribution counts orders per status. Statuses with no orders are
// reported as zero.
func (s *AnalyticsService) StatusDistribution(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("status distribution: %w", err)
	}

	out := make(map[models.OrderStatus]int64, len(models.Pipeline)+1)
	for _, st := range models.Pipeline {
		out[st] = 0
	}
	out[models.StatusCancelled] = 0
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

// RevenueMonthly sums non-cancelled order totals per calendar month for the
// last n months, oldest first.
func (s *AnalyticsService) RevenueMonthly(ctx context.Context, months int) (*ChartSeries, error) {
	months = clamp(months, DefaultChartMonths, maxChartMonths)
	db := s.db.WithContext(ctx)
	first := utils.BeginningOfMonth(s.now())

	series := &ChartSeries{Labels: make([]string, 0, months), Data: make([]int64, 0, months)}
	for i := months - 1; i >= 0; i-- {
		from := first.AddDate(0, -i, 0)
		revenue, err := s.revenue(db, from, from.AddDate(0, 1, 0))
		if err != nil {
			return nil, err
		}
		series.Labels = append(series.Labels, utils.MonthLabel(from))
		series.Data = append(series.Data, revenue)
	}
	return series, nil
}

// TrendDaily counts orders received per day for the last n days, oldest first.
func (s *AnalyticsService) TrendDaily(ctx context.Context, days int) (*ChartSeries, error) {
	days = clamp(days, DefaultChartDays, maxChartDays)
	db := s.db.WithContext(ctx)
	today := utils.BeginningOfDay(s.now())

	series := &ChartSeries{Labels: make([]string, 0, days), Data: make([]int64, 0, days)}
	for i := days - 1; i >= 0; i-- {
		from := today.AddDate(0, 0, -i)
		var count int64
		if err := db.Model(&models.Order{}).
			Where("entry_date >= ? AND entry_date < ?", from, from.AddDate(0, 0, 1)).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count daily orders: %w", err)
		}
		series.Labels = append(series.Labels, utils.DayLabel(from))
		series.Data = append(series.Data, count)
	}
	return series, nil
}

// revenue sums totals of non-cancelled orders entered in [from, to).
func (s *AnalyticsService) revenue(db *gorm.DB, from, to time.Time) (int64, error) {
	var total int64
	err := db.Model(&models.Order{}).
		Where("entry_date >= ? AND entry_date < ? AND status <> ?", from, to, models.StatusCancelled).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

func growthPercentage(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

func clamp(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
