package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/queue"
	"github.com/polaroid-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultOrderNoMaxAttempts = 3
	orderNoRandomAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	printSizeRepo repository.PrintSizeRepository
	userRepo      repository.UserRepository
	queueClient   *queue.Client
	cfg           config.OrderConfig
	newOrderNo    func() string
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, printSizeRepo repository.PrintSizeRepository, userRepo repository.UserRepository, queueClient *queue.Client, cfg config.OrderConfig) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		printSizeRepo: printSizeRepo,
		userRepo:      userRepo,
		queueClient:   queueClient,
		cfg:           cfg,
		newOrderNo:    generateOrderNo,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerState   string
	ShippingAddress string
	Notes           string
	AffiliateCode   string
	UserID          uint   // 已登录用户
	OwnerEmail      string // 未登录时按邮箱尽力关联用户
	Items           []CreateOrderItem
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	PrintSizeID string
	Quantity    int
	Images      []string
	CustomTexts []string
}

// CreateOrder 创建订单：订单、订单项与首条历史在同一事务内写入
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.PrintSizeID) == "" || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
	}
	name := strings.TrimSpace(input.CustomerName)
	email := strings.ToLower(strings.TrimSpace(input.CustomerEmail))
	if name == "" || email == "" {
		return nil, ErrInvalidCustomer
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	items, subtotal, err := s.buildOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	state := strings.ToUpper(strings.TrimSpace(input.CustomerState))
	if state == "" {
		state = s.defaultCustomerState()
	}
	userID := s.resolveOwner(input.UserID, input.OwnerEmail)
	affiliateID := s.resolveAffiliate(input.AffiliateCode)

	maxAttempts := s.cfg.OrderNoMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultOrderNoMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		now := time.Now()
		order := &models.Order{
			OrderNo:         s.newOrderNo(),
			UserID:          userID,
			AffiliateID:     affiliateID,
			CustomerName:    name,
			CustomerEmail:   email,
			CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
			CustomerState:   state,
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			Notes:           strings.TrimSpace(input.Notes),
			Subtotal:        subtotal,
			Shipping:        models.ZeroMoney(),
			Total:           subtotal.Add(models.ZeroMoney()),
			Status:          constants.OrderStatusPending,
			PaymentStatus:   constants.PaymentStatusPending,
			PaymentMethod:   constants.DefaultPaymentMethod,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		orderItems := make([]models.OrderItem, len(items))
		copy(orderItems, items)
		history := &models.OrderStatusHistory{
			Status:    constants.OrderStatusPending,
			Message:   constants.HistoryMessageOrderCreated,
			CreatedBy: constants.CallerSystem,
			CreatedAt: now,
		}

		err := models.DB.Transaction(func(tx *gorm.DB) error {
			return s.orderRepo.WithTx(tx).Create(order, orderItems, history)
		})
		if err == nil {
			logger.Infow("order_created",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"item_count", len(orderItems),
				"total", order.Total.String(),
				"attempt", attempt,
			)
			s.enqueueStatusNotify(order.ID, order.Status, constants.CallerSystem)
			return order, nil
		}
		if repository.IsUniqueViolation(err) {
			logger.Warnw("order_no_conflict_retry",
				"order_no", order.OrderNo,
				"attempt", attempt,
				"max_attempts", maxAttempts,
			)
			continue
		}
		logger.Errorw("order_create_failed", "order_no", order.OrderNo, "error", err)
		return nil, ErrOrderCreateFailed
	}
	return nil, ErrOrderNoConflict
}

// buildOrderItems 快照尺寸名称与单价并计算小计
func (s *OrderService) buildOrderItems(inputs []CreateOrderItem) ([]models.OrderItem, models.Money, error) {
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, item := range inputs {
		id := strings.TrimSpace(item.PrintSizeID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sizes, err := s.printSizeRepo.ListByIDs(ids)
	if err != nil {
		logger.Errorw("order_print_size_fetch_failed", "error", err)
		return nil, models.Money{}, ErrOrderCreateFailed
	}
	sizeMap := make(map[string]models.PrintSize, len(sizes))
	for _, size := range sizes {
		sizeMap[size.ID] = size
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		size, ok := sizeMap[strings.TrimSpace(input.PrintSizeID)]
		if !ok {
			return nil, models.Money{}, ErrPrintSizeNotFound
		}
		if !size.IsActive {
			return nil, models.Money{}, ErrPrintSizeInactive
		}
		lineTotal := size.Price.Mul(input.Quantity)
		subtotal = subtotal.Add(lineTotal.Decimal)
		items = append(items, models.OrderItem{
			PrintSizeID: size.ID,
			SizeName:    size.DisplayName,
			UnitPrice:   size.Price,
			Quantity:    input.Quantity,
			TotalPrice:  lineTotal,
			Images:      normalizeStringList(input.Images),
			CustomTexts: normalizeStringList(input.CustomTexts),
		})
	}
	return items, models.NewMoneyFromDecimal(subtotal), nil
}

func (s *OrderService) resolveOwner(userID uint, ownerEmail string) *uint {
	if userID != 0 {
		id := userID
		return &id
	}
	email := strings.ToLower(strings.TrimSpace(ownerEmail))
	if email == "" || s.userRepo == nil {
		return nil
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		logger.Warnw("order_owner_lookup_failed", "email", email, "error", err)
		return nil
	}
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

func (s *OrderService) resolveAffiliate(code string) *uint {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || s.userRepo == nil {
		return nil
	}
	user, err := s.userRepo.GetByAffiliateCode(code)
	if err != nil {
		logger.Warnw("order_affiliate_lookup_failed", "affiliate_code", code, "error", err)
		return nil
	}
	if user == nil {
		logger.Infow("order_affiliate_code_unresolved", "affiliate_code", code)
		return nil
	}
	id := user.ID
	return &id
}

func (s *OrderService) defaultCustomerState() string {
	if state := strings.ToUpper(strings.TrimSpace(s.cfg.DefaultCustomerState)); state != "" {
		return state
	}
	return constants.DefaultCustomerState
}

func (s *OrderService) enqueueStatusNotify(orderID uint, status, caller string) {
	if s.queueClient == nil || orderID == 0 {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID: orderID,
		Status:  status,
		Caller:  caller,
	}); err != nil {
		logger.Warnw("order_enqueue_status_notify_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

// generateOrderNo 生成订单号：PG + 毫秒时间戳后 8 位 + 4 位大写字母数字
func generateOrderNo() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return fmt.Sprintf("%s%s%s", constants.OrderNoPrefix, millis, randAlphanumeric(4))
}

func randAlphanumeric(length int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(orderNoRandomAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte(orderNoRandomAlphabet[0])
			continue
		}
		b.WriteByte(orderNoRandomAlphabet[n.Int64()])
	}
	return b.String()
}

func normalizeStringList(values []string) models.StringArray {
	result := make(models.StringArray, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}
