package service

import (
	"context"
	"errors"
	"strings"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/queue"
	"github.com/polaroid-next/internal/repository"
)

// OrderNotification 订单通知内容
type OrderNotification struct {
	Event          string
	OrderID        uint
	OrderNo        string
	CustomerName   string
	CustomerEmail  string
	Status         string
	PaymentStatus  string
	Message        string
	TrackingNumber string
	Total          models.Money
	Caller         string
}

// Notifier 通知投递渠道
type Notifier interface {
	Name() string
	Notify(ctx context.Context, notification OrderNotification) error
}

// LogNotifier 以结构化日志记录通知（默认渠道）
type LogNotifier struct{}

// Name 渠道名称
func (LogNotifier) Name() string {
	return "log"
}

// Notify 写入日志
func (LogNotifier) Notify(_ context.Context, n OrderNotification) error {
	logger.Infow("order_notification_dispatched",
		"event", n.Event,
		"order_id", n.OrderID,
		"order_no", n.OrderNo,
		"status", n.Status,
		"payment_status", n.PaymentStatus,
		"message", n.Message,
		"caller", n.Caller,
	)
	return nil
}

// NotificationService 订单通知服务（由异步任务驱动）
type NotificationService struct {
	orderRepo repository.OrderRepository
	notifiers []Notifier
}

// NewNotificationService 创建通知服务，未指定渠道时仅记录日志
func NewNotificationService(orderRepo repository.OrderRepository, notifiers ...Notifier) *NotificationService {
	active := make([]Notifier, 0, len(notifiers)+1)
	for _, notifier := range notifiers {
		if notifier != nil {
			active = append(active, notifier)
		}
	}
	if len(active) == 0 {
		active = append(active, LogNotifier{})
	}
	return &NotificationService{orderRepo: orderRepo, notifiers: active}
}

// NotifyOrderStatus 处理状态变更通知
func (s *NotificationService) NotifyOrderStatus(ctx context.Context, payload queue.OrderStatusNotifyPayload) error {
	if payload.OrderID == 0 {
		return ErrNotificationPayload
	}
	order, err := s.loadOrder(payload.OrderID)
	if err != nil {
		return err
	}
	message, err := s.statusMessage(order.ID, payload.Status)
	if err != nil {
		return err
	}
	notification := buildOrderNotification(order, constants.NotificationEventStatusChanged)
	notification.Message = message
	notification.Caller = strings.TrimSpace(payload.Caller)
	return s.dispatch(ctx, notification)
}

// NotifyPaymentReceived 处理到账通知
func (s *NotificationService) NotifyPaymentReceived(ctx context.Context, payload queue.OrderPaymentReceivedPayload) error {
	if payload.OrderID == 0 {
		return ErrNotificationPayload
	}
	order, err := s.loadOrder(payload.OrderID)
	if err != nil {
		return err
	}
	notification := buildOrderNotification(order, constants.NotificationEventPaymentReceived)
	notification.Message = constants.HistoryMessagePaymentReceived
	notification.Caller = constants.CallerGateway
	return s.dispatch(ctx, notification)
}

func (s *NotificationService) loadOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// statusMessage 取该状态最近一条历史消息；任务延迟执行时不会读到之后的变更
// 到账记录走单独的通知，这里跳过
func (s *NotificationService) statusMessage(orderID uint, status string) (string, error) {
	rows, err := s.orderRepo.ListHistory(orderID)
	if err != nil {
		return "", err
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	fallback := ""
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Message == constants.HistoryMessagePaymentReceived {
			continue
		}
		if fallback == "" {
			fallback = rows[i].Message
		}
		if status == "" || rows[i].Status == status {
			return rows[i].Message, nil
		}
	}
	return fallback, nil
}

// dispatch 逐个渠道投递，任一失败时返回合并错误以便任务重试
func (s *NotificationService) dispatch(ctx context.Context, notification OrderNotification) error {
	var errs []error
	for _, notifier := range s.notifiers {
		if err := notifier.Notify(ctx, notification); err != nil {
			logger.Warnw("order_notification_failed",
				"channel", notifier.Name(),
				"order_id", notification.OrderID,
				"event", notification.Event,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildOrderNotification(order *models.Order, event string) OrderNotification {
	return OrderNotification{
		Event:          event,
		OrderID:        order.ID,
		OrderNo:        order.OrderNo,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		Status:         order.Status,
		PaymentStatus:  order.PaymentStatus,
		TrackingNumber: order.TrackingNumber,
		Total:          order.Total,
	}
}
