package public

import (
	"strings"
	"time"

	handlershared "github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/repository"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderItemRequest 下单订单项
type CreateOrderItemRequest struct {
	PrintSizeID string   `json:"print_size_id" binding:"required"`
	Quantity    int      `json:"quantity" binding:"required"`
	Images      []string `json:"images"`
	CustomTexts []string `json:"custom_texts"`
}

// CreateOrderRequest 下单请求（游客或已登录用户）
type CreateOrderRequest struct {
	CustomerName    string                   `json:"customer_name"`
	CustomerEmail   string                   `json:"customer_email"`
	CustomerPhone   string                   `json:"customer_phone"`
	CustomerState   string                   `json:"customer_state"`
	ShippingAddress string                   `json:"shipping_address"`
	Notes           string                   `json:"notes"`
	AffiliateCode   string                   `json:"affiliate_code"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.order_item_invalid", nil)
		return
	}

	input := service.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerState:   req.CustomerState,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		AffiliateCode:   req.AffiliateCode,
		UserID:          handlershared.OptionalUserID(c),
		Items:           make([]service.CreateOrderItem, 0, len(req.Items)),
	}
	if input.UserID == 0 {
		input.OwnerEmail = req.CustomerEmail
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CreateOrderItem{
			PrintSizeID: item.PrintSizeID,
			Quantity:    item.Quantity,
			Images:      item.Images,
			CustomTexts: item.CustomTexts,
		})
	}

	order, err := h.OrderService.CreateOrder(input)
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	requestLog(c).Infow("public_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", input.UserID,
		"total", order.Total.String(),
	)
	response.Success(c, order)
}

// trackedOrderView 公开查单只返回履约相关字段
type trackedOrderView struct {
	OrderNo        string                      `json:"order_no"`
	Status         string                      `json:"status"`
	PaymentStatus  string                      `json:"payment_status"`
	TrackingNumber string                      `json:"tracking_number,omitempty"`
	CustomerState  string                      `json:"customer_state"`
	Total          models.Money                `json:"total"`
	Items          []models.OrderItem          `json:"items"`
	History        []models.OrderStatusHistory `json:"history"`
	PaidAt         *time.Time                  `json:"paid_at"`
	ShippedAt      *time.Time                  `json:"shipped_at"`
	DeliveredAt    *time.Time                  `json:"delivered_at"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// TrackOrder 按订单号查询订单进度
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	order, err := h.OrderService.GetOrderByNo(orderNo)
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, trackedOrderView{
		OrderNo:        order.OrderNo,
		Status:         order.Status,
		PaymentStatus:  order.PaymentStatus,
		TrackingNumber: order.TrackingNumber,
		CustomerState:  order.CustomerState,
		Total:          order.Total,
		Items:          order.Items,
		History:        order.History,
		PaidAt:         order.PaidAt,
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		CreatedAt:      order.CreatedAt,
	})
}

// ListMyOrders 当前用户的订单
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePageQuery(c)
	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}
