package service

import (
	"errors"
	"strings"
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"

	"gorm.io/gorm"
)

var fulfillmentStatuses = map[string]struct{}{
	constants.OrderStatusPending:    {},
	constants.OrderStatusProcessing: {},
	constants.OrderStatusPosted:     {},
	constants.OrderStatusOnDelivery: {},
	constants.OrderStatusDelivered:  {},
	constants.OrderStatusCancelled:  {},
	constants.OrderStatusRefunded:   {},
}

// UpdateOrderStatusInput 履约状态变更输入
type UpdateOrderStatusInput struct {
	OrderID uint
	Status  string
	Message string
	Caller  string // 操作人标识，写入历史 created_by
}

// normalizeFulfillmentStatus 归一化履约状态，未知值返回空
func normalizeFulfillmentStatus(raw string) string {
	status := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := fulfillmentStatuses[status]; !ok {
		return ""
	}
	return status
}

// isFulfillmentTransitionAllowed 履约状态迁移策略
// 目前任意已知状态之间均可迁移，收紧规则只需修改此处
func isFulfillmentTransitionAllowed(from, to string) bool {
	if _, ok := fulfillmentStatuses[to]; !ok {
		return false
	}
	return true
}

// fulfillmentSideEffects 计算目标状态需要写入的列与默认历史文案
func fulfillmentSideEffects(target, message string, now time.Time) (map[string]interface{}, string) {
	updates := map[string]interface{}{
		"updated_at": now,
	}
	historyMessage := strings.TrimSpace(message)
	withDefault := func(fallback string) string {
		if historyMessage == "" {
			return fallback
		}
		return historyMessage
	}

	switch target {
	case constants.OrderStatusProcessing:
		return updates, withDefault(constants.HistoryMessageOrderProcessing)
	case constants.OrderStatusPosted:
		updates["shipped_at"] = gorm.Expr("COALESCE(shipped_at, ?)", now)
		return updates, withDefault(constants.HistoryMessageOrderPosted)
	case constants.OrderStatusOnDelivery:
		return updates, withDefault(constants.HistoryMessageOutForDelivery)
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = gorm.Expr("COALESCE(delivered_at, ?)", now)
		return updates, withDefault(constants.HistoryMessageOrderDelivered)
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = gorm.Expr("COALESCE(cancelled_at, ?)", now)
		updates["cancel_reason"] = historyMessage
		return updates, withDefault(constants.HistoryMessageOrderCancelled)
	default:
		return updates, historyMessage
	}
}

// UpdateOrderStatus 变更履约状态，每次调用追加且只追加一条历史
func (s *OrderService) UpdateOrderStatus(input UpdateOrderStatusInput) (*models.Order, error) {
	caller := strings.TrimSpace(input.Caller)
	if caller == "" {
		return nil, ErrCallerRequired
	}
	target := normalizeFulfillmentStatus(input.Status)
	if target == "" {
		return nil, ErrOrderStatusInvalid
	}

	var previousStatus string
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !isFulfillmentTransitionAllowed(order.Status, target) {
			return ErrOrderStatusInvalid
		}
		previousStatus = order.Status

		updates, historyMessage := fulfillmentSideEffects(target, input.Message, now)
		if err := orderRepo.UpdateFulfillment(order.ID, target, updates); err != nil {
			return err
		}
		return orderRepo.AppendHistory(&models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    target,
			Message:   historyMessage,
			CreatedBy: caller,
			CreatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderStatusInvalid) {
			return nil, err
		}
		logger.Errorw("order_status_update_failed",
			"order_id", input.OrderID,
			"target_status", target,
			"caller", caller,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	logger.Infow("order_status_updated",
		"order_id", input.OrderID,
		"previous_status", previousStatus,
		"new_status", target,
		"caller", caller,
	)
	s.enqueueStatusNotify(input.OrderID, target, caller)
	return s.GetOrder(input.OrderID)
}

// UpdateTrackingNumber 覆盖物流单号，不写历史
func (s *OrderService) UpdateTrackingNumber(orderID uint, trackingNumber string) (*models.Order, error) {
	return s.updateOrderFields(orderID, map[string]interface{}{
		"tracking_number": strings.TrimSpace(trackingNumber),
	})
}

// UpdateNotes 覆盖备注（非追加）
func (s *OrderService) UpdateNotes(orderID uint, notes string) (*models.Order, error) {
	return s.updateOrderFields(orderID, map[string]interface{}{
		"notes": notes,
	})
}

// AttachGatewayRef 记录支付网关账单号，回调按此定位订单
func (s *OrderService) AttachGatewayRef(orderID uint, ref string) (*models.Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrGatewayRefRequired
	}
	return s.updateOrderFields(orderID, map[string]interface{}{
		"gateway_ref": ref,
	})
}

func (s *OrderService) updateOrderFields(orderID uint, updates map[string]interface{}) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		logger.Errorw("order_fields_update_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	return s.GetOrder(order.ID)
}
