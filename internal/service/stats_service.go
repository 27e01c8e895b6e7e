package service

import (
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/payment/toyyibpay"
	"github.com/polaroid-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultRevenueWindowDays = 30
	defaultTopSizesLimit     = 5
	maxTopSizesLimit         = 100
	defaultFeePercentage     = 2.5
	statsMaxRangeDays        = 366
)

// StatsService 订单统计服务
// 说明：只读，不做缓存；各项指标分别查询。
type StatsService struct {
	repo       repository.StatsRepository
	cfg        config.StatsConfig
	paymentCfg config.PaymentConfig
	now        func() time.Time
}

// NewStatsService 创建统计服务
func NewStatsService(repo repository.StatsRepository, cfg config.StatsConfig, paymentCfg config.PaymentConfig) *StatsService {
	return &StatsService{repo: repo, cfg: cfg, paymentCfg: paymentCfg, now: time.Now}
}

// StatsOverview 统计总览
type StatsOverview struct {
	TotalOrders       int64            `json:"total_orders"`
	ByStatus          map[string]int64 `json:"by_status"`
	ByPaymentStatus   map[string]int64 `json:"by_payment_status"`
	Revenue           models.Money     `json:"revenue"`
	RevenueWindowDays int              `json:"revenue_window_days"`
}

// TopSizeItem 畅销尺寸
type TopSizeItem struct {
	PrintSizeID string       `json:"print_size_id"`
	SizeName    string       `json:"size_name"`
	Quantity    int64        `json:"quantity"`
	Revenue     models.Money `json:"revenue"`
}

// DailySalesItem 每日销售
type DailySalesItem struct {
	Date    string       `json:"date"`
	Orders  int64        `json:"orders"`
	Revenue models.Money `json:"revenue"`
}

// PaymentCosts 支付手续费统计
type PaymentCosts struct {
	PeriodFrom        string       `json:"period_from"`
	PeriodTo          string       `json:"period_to"`
	TotalTransactions int64        `json:"total_transactions"`
	TotalAmount       models.Money `json:"total_amount"`
	FeePercentage     float64      `json:"fee_percentage"`
	TotalFee          models.Money `json:"total_fee"`
	NetAmount         models.Money `json:"net_amount"`
	Provider          string       `json:"provider"`
}

var overviewFulfillmentStatuses = []string{
	constants.OrderStatusPending,
	constants.OrderStatusProcessing,
	constants.OrderStatusPosted,
	constants.OrderStatusOnDelivery,
	constants.OrderStatusDelivered,
	constants.OrderStatusCancelled,
	constants.OrderStatusRefunded,
}

var overviewPaymentStatuses = []string{
	constants.PaymentStatusPending,
	constants.PaymentStatusPaid,
	constants.PaymentStatusFailed,
}

// GetOverview 获取统计总览
func (s *StatsService) GetOverview() (*StatsOverview, error) {
	total, err := s.repo.CountOrders()
	if err != nil {
		return nil, s.queryFailed("count_orders", err)
	}
	statusRows, err := s.repo.CountByStatus()
	if err != nil {
		return nil, s.queryFailed("count_by_status", err)
	}
	paymentRows, err := s.repo.CountByPaymentStatus()
	if err != nil {
		return nil, s.queryFailed("count_by_payment_status", err)
	}

	windowDays := s.revenueWindowDays()
	since := s.now().AddDate(0, 0, -windowDays)
	revenue, err := s.repo.SumPaidRevenue(since)
	if err != nil {
		return nil, s.queryFailed("sum_paid_revenue", err)
	}

	return &StatsOverview{
		TotalOrders:       total,
		ByStatus:          zeroFilledCounts(overviewFulfillmentStatuses, statusRows),
		ByPaymentStatus:   zeroFilledCounts(overviewPaymentStatuses, paymentRows),
		Revenue:           revenue,
		RevenueWindowDays: windowDays,
	}, nil
}

// GetOrdersByStatus 按履约状态计数（仅返回存在的状态）
func (s *StatsService) GetOrdersByStatus() (map[string]int64, error) {
	rows, err := s.repo.CountByStatus()
	if err != nil {
		return nil, s.queryFailed("count_by_status", err)
	}
	return groupCounts(rows), nil
}

// GetOrdersByState 按州/地区计数
func (s *StatsService) GetOrdersByState() (map[string]int64, error) {
	rows, err := s.repo.CountByCustomerState()
	if err != nil {
		return nil, s.queryFailed("count_by_customer_state", err)
	}
	return groupCounts(rows), nil
}

// GetTopSellingSizes 获取畅销尺寸排行
func (s *StatsService) GetTopSellingSizes(limit int) ([]TopSizeItem, error) {
	if limit <= 0 {
		limit = s.cfg.TopSizesLimit
	}
	if limit <= 0 {
		limit = defaultTopSizesLimit
	}
	if limit > maxTopSizesLimit {
		limit = maxTopSizesLimit
	}
	rows, err := s.repo.TopSellingSizes(limit)
	if err != nil {
		return nil, s.queryFailed("top_selling_sizes", err)
	}
	items := make([]TopSizeItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, TopSizeItem{
			PrintSizeID: row.PrintSizeID,
			SizeName:    row.SizeName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue,
		})
	}
	return items, nil
}

// GetDailySales 获取区间内每日销售
func (s *StatsService) GetDailySales(from, to time.Time) ([]DailySalesItem, error) {
	if err := validateStatsRange(from, to); err != nil {
		return nil, err
	}
	rows, err := s.repo.DailySales(from, to)
	if err != nil {
		return nil, s.queryFailed("daily_sales", err)
	}
	items := make([]DailySalesItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, DailySalesItem{
			Date:    row.Day,
			Orders:  row.Orders,
			Revenue: row.Revenue,
		})
	}
	return items, nil
}

// GetPaymentCosts 计算区间内网关手续费
func (s *StatsService) GetPaymentCosts(from, to time.Time) (*PaymentCosts, error) {
	if err := validateStatsRange(from, to); err != nil {
		return nil, err
	}
	totals, err := s.repo.PaidTotals(from, to)
	if err != nil {
		return nil, s.queryFailed("paid_totals", err)
	}

	pct := s.feePercentage()
	fee := models.NewMoneyFromDecimal(
		totals.Amount.Decimal.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100)),
	)
	net := models.NewMoneyFromDecimal(totals.Amount.Decimal.Sub(fee.Decimal))

	provider := s.paymentCfg.Gateway
	if provider == "" || provider == toyyibpay.Gateway {
		provider = toyyibpay.ProviderName
	}
	return &PaymentCosts{
		PeriodFrom:        from.Format(time.RFC3339),
		PeriodTo:          to.Format(time.RFC3339),
		TotalTransactions: totals.Transactions,
		TotalAmount:       totals.Amount,
		FeePercentage:     pct,
		TotalFee:          fee,
		NetAmount:         net,
		Provider:          provider,
	}, nil
}

// DefaultStatsRange 默认统计区间（最近 30 天）
func (s *StatsService) DefaultStatsRange() (time.Time, time.Time) {
	to := s.now()
	return to.AddDate(0, 0, -defaultRevenueWindowDays), to
}

func (s *StatsService) revenueWindowDays() int {
	if s.cfg.RevenueWindowDays > 0 {
		return s.cfg.RevenueWindowDays
	}
	return defaultRevenueWindowDays
}

func (s *StatsService) feePercentage() float64 {
	if s.paymentCfg.FeePercentage > 0 {
		return s.paymentCfg.FeePercentage
	}
	return defaultFeePercentage
}

func (s *StatsService) queryFailed(query string, err error) error {
	logger.Errorw("stats_query_failed", "query", query, "error", err)
	return ErrStatsQueryFailed
}

func validateStatsRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return ErrDateRangeInvalid
	}
	if to.Sub(from) > statsMaxRangeDays*24*time.Hour {
		return ErrDateRangeInvalid
	}
	return nil
}

func zeroFilledCounts(keys []string, rows []repository.GroupCountRow) map[string]int64 {
	result := make(map[string]int64, len(keys))
	for _, key := range keys {
		result[key] = 0
	}
	for _, row := range rows {
		result[row.Label] = row.Total
	}
	return result
}

func groupCounts(rows []repository.GroupCountRow) map[string]int64 {
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Label] = row.Total
	}
	return result
}
