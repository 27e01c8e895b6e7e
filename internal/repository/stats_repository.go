package repository

import (
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/models"

	"gorm.io/gorm"
)

// StatsRepository 订单统计聚合查询接口
// 说明：只读，每个方法单独查询，彼此不保证同一时间点一致。
type StatsRepository interface {
	CountOrders() (int64, error)
	CountByStatus() ([]GroupCountRow, error)
	CountByPaymentStatus() ([]GroupCountRow, error)
	CountByCustomerState() ([]GroupCountRow, error)
	SumPaidRevenue(since time.Time) (models.Money, error)
	TopSellingSizes(limit int) ([]TopSizeRow, error)
	DailySales(from, to time.Time) ([]DailySalesRow, error)
	PaidTotals(from, to time.Time) (PaidTotalsRow, error)
}

// GroupCountRow 分组计数结果
type GroupCountRow struct {
	Label string
	Total int64
}

// TopSizeRow 畅销尺寸排行
type TopSizeRow struct {
	PrintSizeID string
	SizeName    string
	Quantity    int64
	Revenue     models.Money
}

// DailySalesRow 按天销售统计
type DailySalesRow struct {
	Day     string
	Orders  int64
	Revenue models.Money
}

// PaidTotalsRow 已支付订单汇总
type PaidTotalsRow struct {
	Transactions int64
	Amount       models.Money
}

// GormStatsRepository GORM 统计实现
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

func groupRowsToMap(rows []GroupCountRow) map[string]int64 {
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Label] = row.Total
	}
	return result
}

func (r *GormStatsRepository) countGrouped(column string) ([]GroupCountRow, error) {
	rows := make([]GroupCountRow, 0)
	if err := r.db.Model(&models.Order{}).
		Select(column + " as label, COUNT(*) as total").
		Group(column).
		Order("total desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountOrders 订单总数
func (r *GormStatsRepository) CountOrders() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByStatus 按履约状态分组计数
func (r *GormStatsRepository) CountByStatus() ([]GroupCountRow, error) {
	return r.countGrouped("status")
}

// CountByPaymentStatus 按支付状态分组计数
func (r *GormStatsRepository) CountByPaymentStatus() ([]GroupCountRow, error) {
	return r.countGrouped("payment_status")
}

// CountByCustomerState 按客户地区分组计数
func (r *GormStatsRepository) CountByCustomerState() ([]GroupCountRow, error) {
	return r.countGrouped("customer_state")
}

// SumPaidRevenue 统计 since 之后创建的已支付订单金额，无数据时为 0
func (r *GormStatsRepository) SumPaidRevenue(since time.Time) (models.Money, error) {
	var row struct {
		Revenue models.Money
	}
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) as revenue").
		Where("payment_status = ? AND created_at >= ?", constants.PaymentStatusPaid, since).
		Scan(&row).Error; err != nil {
		return models.ZeroMoney(), err
	}
	return row.Revenue, nil
}

// TopSellingSizes 按销量获取畅销尺寸
func (r *GormStatsRepository) TopSellingSizes(limit int) ([]TopSizeRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]TopSizeRow, 0)
	if err := r.db.Model(&models.OrderItem{}).
		Select(`
			print_size_id as print_size_id,
			size_name as size_name,
			COALESCE(SUM(quantity), 0) as quantity,
			COALESCE(SUM(total_price), 0) as revenue
		`).
		Group("print_size_id, size_name").
		Order("quantity DESC, print_size_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DailySales 按天统计下单数与金额
func (r *GormStatsRepository) DailySales(from, to time.Time) ([]DailySalesRow, error) {
	expr := dialectOf(r.db).day("created_at")
	rows := make([]DailySalesRow, 0)
	if err := r.db.Model(&models.Order{}).
		Select(expr+" as day, COUNT(*) as orders, COALESCE(SUM(total), 0) as revenue").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group(expr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PaidTotals 统计支付时间落在区间内的已支付订单
func (r *GormStatsRepository) PaidTotals(from, to time.Time) (PaidTotalsRow, error) {
	var row PaidTotalsRow
	if err := r.db.Model(&models.Order{}).
		Select("COUNT(*) as transactions, COALESCE(SUM(total), 0) as amount").
		Where("payment_status = ? AND paid_at IS NOT NULL AND paid_at >= ? AND paid_at <= ?", constants.PaymentStatusPaid, from, to).
		Scan(&row).Error; err != nil {
		return PaidTotalsRow{}, err
	}
	return row, nil
}
