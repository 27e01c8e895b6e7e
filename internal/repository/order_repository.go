package repository

import (
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem, history *models.OrderStatusHistory) error
	GetByID(id uint) (*models.Order, error)
	GetByIDForUpdate(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByGatewayRef(ref string) (*models.Order, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateFulfillment(id uint, status string, updates map[string]interface{}) error
	MarkPaid(id uint, paidAt time.Time) (bool, error)
	UpdatePaymentStatusFrom(id uint, from, to string) (bool, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	AppendHistory(entry *models.OrderStatusHistory) error
	ListHistory(orderID uint) ([]models.OrderStatusHistory, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withDetail(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		})
}

// Create 创建订单、订单项与首条状态历史，调用方负责事务
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem, history *models.OrderStatusHistory) error {
	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	if history != nil {
		history.OrderID = order.ID
		if err := r.db.Create(history).Error; err != nil {
			return err
		}
	}
	order.Items = items
	if history != nil {
		order.History = []models.OrderStatusHistory{*history}
	}
	return nil
}

// GetByID 根据 ID 获取订单（含订单项与历史）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	return firstOrNil[models.Order](r.withDetail(r.db), id)
}

// GetByIDForUpdate 行锁读取订单，仅在事务内使用
func (r *GormOrderRepository) GetByIDForUpdate(id uint) (*models.Order, error) {
	return firstOrNil[models.Order](r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetByOrderNo 根据订单号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	return firstOrNil[models.Order](r.withDetail(r.db).Where("order_no = ?", orderNo))
}

// GetByGatewayRef 根据支付网关账单号获取订单
func (r *GormOrderRepository) GetByGatewayRef(ref string) (*models.Order, error) {
	return firstOrNil[models.Order](r.db.Where("gateway_ref = ?", ref).Order("id desc"))
}

func applyOrderFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerState != "" {
		query = query.Where("customer_state = ?", filter.CustomerState)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := applyOrderFilter(r.db.Model(&models.Order{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	var orders []models.Order
	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByUser 获取用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return []models.Order{}, 0, nil
	}
	return r.ListAdmin(filter)
}

// UpdateFulfillment 更新履约状态及相关列，不触碰支付列
func (r *GormOrderRepository) UpdateFulfillment(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// MarkPaid 条件更新为已支付，已支付订单不受影响；返回是否实际生效
func (r *GormOrderRepository) MarkPaid(id uint, paidAt time.Time) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", id, constants.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status": constants.PaymentStatusPaid,
			"paid_at":        gorm.Expr("COALESCE(paid_at, ?)", paidAt),
			"updated_at":     paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdatePaymentStatusFrom 仅当当前支付状态为 from 时切换到 to
func (r *GormOrderRepository) UpdatePaymentStatusFrom(id uint, from, to string) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Updates(map[string]interface{}{
			"payment_status": to,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateFields 更新员工可维护的普通字段
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// AppendHistory 追加状态历史
func (r *GormOrderRepository) AppendHistory(entry *models.OrderStatusHistory) error {
	if entry == nil {
		return nil
	}
	return r.db.Create(entry).Error
}

// ListHistory 按时间顺序获取状态历史
func (r *GormOrderRepository) ListHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var rows []models.OrderStatusHistory
	if err := r.db.Where("order_id = ?", orderID).Order("created_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
