package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/polaroid-next/internal/cache"
	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/payment/toyyibpay"
	"github.com/polaroid-next/internal/queue"
	"github.com/polaroid-next/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService 支付对账服务
type PaymentService struct {
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
	cfg         config.PaymentConfig
	acquireLock deliveryLocker
}

// deliveryLock 已持有的回调投递锁
type deliveryLock interface {
	Release(ctx context.Context) error
}

// deliveryLocker 返回 acquired=false 表示同一投递正在被其他请求处理
type deliveryLocker func(ctx context.Context, gateway, key string, ttl time.Duration) (deliveryLock, bool, error)

func redisDeliveryLocker(ctx context.Context, gateway, key string, ttl time.Duration) (deliveryLock, bool, error) {
	lock, acquired, err := cache.AcquireWebhookLock(ctx, gateway, key, ttl)
	if lock == nil {
		return nil, acquired, err
	}
	return lock, acquired, err
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, queueClient *queue.Client, cfg config.PaymentConfig) *PaymentService {
	return &PaymentService{
		orderRepo:   orderRepo,
		queueClient: queueClient,
		cfg:         cfg,
		acquireLock: redisDeliveryLocker,
	}
}

func paymentLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// GatewayCallbackInput 网关回调输入
type GatewayCallbackInput struct {
	Reference  string // 账单参考号（gateway_ref 或订单号）
	StatusCode string // 网关原始状态码
	Amount     string // 仅记录，不与订单金额比对
	Source     string // 来源标识，仅用于日志
}

// PaymentCallbackResult 回调处理结果
type PaymentCallbackResult struct {
	Outcome       string `json:"outcome"`
	OrderNo       string `json:"order_no,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Applied       bool   `json:"applied"`
}

// HandleGatewayCallback 处理网关支付回调
// 同一通知可能重复或乱序到达：已支付不回退，重复的已支付通知不再追加历史
func (s *PaymentService) HandleGatewayCallback(ctx context.Context, input GatewayCallbackInput) (*PaymentCallbackResult, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, ErrGatewayRefRequired
	}
	gatewayStatus := toyyibpay.ParseStatus(input.StatusCode)

	log := paymentLogger(
		"reference", reference,
		"callback_status", strings.TrimSpace(input.StatusCode),
		"parsed_status", gatewayStatus.String(),
		"callback_amount", strings.TrimSpace(input.Amount),
		"source", input.Source,
	)
	log.Infow("payment_callback_received")

	target := paymentStatusFromGateway(gatewayStatus)
	if target == "" {
		log.Warnw("payment_callback_unknown_status")
		return &PaymentCallbackResult{Outcome: constants.CallbackOutcomeUnknown}, nil
	}

	order, err := s.findOrderByReference(reference)
	if err != nil {
		log.Errorw("payment_callback_order_fetch_failed", "error", err)
		return nil, ErrPaymentUpdateFailed
	}
	if order == nil {
		log.Warnw("payment_callback_order_not_found")
		return nil, ErrOrderNotFound
	}
	log = log.With("order_id", order.ID, "order_no", order.OrderNo)

	// 锁按 账单号+目标状态 区分：只挡住同一通知的并发重投，不同状态的通知仍由行锁串行
	lock, acquired, lockErr := s.acquireLock(ctx, toyyibpay.Gateway, deliveryLockKey(reference, target), s.lockTTL())
	switch {
	case lockErr != nil:
		log.Warnw("payment_callback_lock_unavailable", "error", lockErr)
	case !acquired:
		log.Infow("payment_callback_duplicate_in_flight", "target_status", target)
		return &PaymentCallbackResult{
			Outcome:       callbackOutcome(target),
			OrderNo:       order.OrderNo,
			PaymentStatus: order.PaymentStatus,
		}, nil
	}
	if lock != nil {
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				log.Warnw("payment_callback_lock_release_failed", "error", err)
			}
		}()
	}

	now := time.Now()
	var previousStatus string
	var currentStatus string
	var applied bool
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		locked, err := orderRepo.GetByIDForUpdate(order.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrOrderNotFound
		}
		previousStatus = locked.PaymentStatus
		currentStatus = locked.PaymentStatus

		switch target {
		case constants.PaymentStatusPaid:
			applied, err = orderRepo.MarkPaid(locked.ID, now)
			if err != nil || !applied {
				return err
			}
			// 到账记录挂在当前履约状态下
			if err := orderRepo.AppendHistory(&models.OrderStatusHistory{
				OrderID:   locked.ID,
				Status:    locked.Status,
				Message:   constants.HistoryMessagePaymentReceived,
				CreatedBy: constants.CallerGateway,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		case constants.PaymentStatusPending:
			// 只允许失败后重试回到待支付
			applied, err = orderRepo.UpdatePaymentStatusFrom(locked.ID, constants.PaymentStatusFailed, constants.PaymentStatusPending)
		case constants.PaymentStatusFailed:
			applied, err = orderRepo.UpdatePaymentStatusFrom(locked.ID, constants.PaymentStatusPending, constants.PaymentStatusFailed)
		}
		if err != nil {
			return err
		}
		if applied {
			currentStatus = target
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		log.Errorw("payment_callback_apply_failed", "target_status", target, "error", err)
		return nil, ErrPaymentUpdateFailed
	}

	if applied {
		log.Infow("payment_callback_processed",
			"previous_status", previousStatus,
			"new_status", currentStatus,
		)
		if target == constants.PaymentStatusPaid {
			s.enqueuePaymentReceived(order, log)
		}
	} else {
		log.Infow("payment_callback_idempotent",
			"current_status", currentStatus,
			"target_status", target,
		)
	}

	return &PaymentCallbackResult{
		Outcome:       callbackOutcome(target),
		OrderNo:       order.OrderNo,
		PaymentStatus: currentStatus,
		Applied:       applied,
	}, nil
}

// findOrderByReference 先按 gateway_ref 查找，再回退到订单号
func (s *PaymentService) findOrderByReference(reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetByGatewayRef(reference)
	if err != nil || order != nil {
		return order, err
	}
	return s.orderRepo.GetByOrderNo(strings.ToUpper(reference))
}

func deliveryLockKey(reference, target string) string {
	return reference + ":" + strings.ToLower(target)
}

func (s *PaymentService) lockTTL() time.Duration {
	if s.cfg.WebhookLockSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.cfg.WebhookLockSeconds) * time.Second
}

func (s *PaymentService) enqueuePaymentReceived(order *models.Order, log *zap.SugaredLogger) {
	if s.queueClient == nil || order == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderPaymentReceived(queue.OrderPaymentReceivedPayload{
		OrderID: order.ID,
		OrderNo: order.OrderNo,
		Amount:  order.Total.String(),
	}); err != nil {
		log.Warnw("payment_enqueue_payment_received_failed", "error", err)
	}
}

func paymentStatusFromGateway(status toyyibpay.Status) string {
	switch status {
	case toyyibpay.StatusSuccess:
		return constants.PaymentStatusPaid
	case toyyibpay.StatusPending:
		return constants.PaymentStatusPending
	case toyyibpay.StatusFailed:
		return constants.PaymentStatusFailed
	default:
		return ""
	}
}

func callbackOutcome(target string) string {
	switch target {
	case constants.PaymentStatusPaid:
		return constants.CallbackOutcomePaid
	case constants.PaymentStatusPending:
		return constants.CallbackOutcomePending
	case constants.PaymentStatusFailed:
		return constants.CallbackOutcomeFailed
	default:
		return constants.CallbackOutcomeUnknown
	}
}
