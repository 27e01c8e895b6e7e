package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/provider"
	"github.com/polaroid-next/internal/queue"
	"github.com/polaroid-next/internal/service"

	"github.com/hibiken/asynq"
)

// OrderNotifier 订单通知分发
type OrderNotifier interface {
	NotifyOrderStatus(ctx context.Context, payload queue.OrderStatusNotifyPayload) error
	NotifyPaymentReceived(ctx context.Context, payload queue.OrderPaymentReceivedPayload) error
}

// Consumer 异步任务消费者
type Consumer struct {
	notifier OrderNotifier
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil || c.NotificationService == nil {
		return &Consumer{}
	}
	return &Consumer{notifier: c.NotificationService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskOrderPaymentReceived, c.handleOrderPaymentReceived)
}

func (c *Consumer) handleOrderStatusNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderStatusNotifyPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.notifier == nil {
		logger.Warnw("worker_order_status_notify_skip_notifier_nil", "order_id", payload.OrderID)
		return nil
	}
	err = c.notifier.NotifyOrderStatus(ctx, payload)
	return resolveNotifyError("worker_order_status_notify", payload.OrderID, err)
}

func (c *Consumer) handleOrderPaymentReceived(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_payment_received_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderPaymentReceivedPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_order_payment_received_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.notifier == nil {
		logger.Warnw("worker_order_payment_received_skip_notifier_nil", "order_id", payload.OrderID)
		return nil
	}
	err = c.notifier.NotifyPaymentReceived(ctx, payload)
	return resolveNotifyError("worker_order_payment_received", payload.OrderID, err)
}

// resolveNotifyError 载荷无效、订单不存在或邮件无法投递时不再重试
func resolveNotifyError(event string, orderID uint, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, service.ErrNotificationPayload):
		logger.Debugw(event+"_skip_invalid_payload", "order_id", orderID)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	case errors.Is(err, service.ErrOrderNotFound):
		logger.Debugw(event+"_skip_order_not_found", "order_id", orderID)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	case errors.Is(err, service.ErrEmailRecipientRejected), errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrEmailServiceNotConfigured):
		logger.Warnw(event+"_skip_email_undeliverable", "order_id", orderID, "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	default:
		logger.Warnw(event+"_failed", "order_id", orderID, "error", err)
		return err
	}
}
