package service

import (
	"strings"

	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/repository"
)

// GetOrder 获取订单详情（含订单项与历史）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByNo 按订单号查询（公开追踪）
func (s *OrderService) GetOrderByNo(orderNo string) (*models.Order, error) {
	orderNo = strings.ToUpper(strings.TrimSpace(orderNo))
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 获取用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.Status != "" {
		if status := normalizeFulfillmentStatus(filter.Status); status != "" {
			filter.Status = status
		} else {
			return nil, 0, ErrOrderStatusInvalid
		}
	}
	filter.PaymentStatus = strings.ToUpper(strings.TrimSpace(filter.PaymentStatus))
	filter.CustomerState = strings.ToUpper(strings.TrimSpace(filter.CustomerState))
	filter.OrderNo = strings.ToUpper(strings.TrimSpace(filter.OrderNo))
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}
