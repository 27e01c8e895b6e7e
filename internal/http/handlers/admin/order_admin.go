package admin

import (
	"strings"
	"time"

	handlershared "github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/repository"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新履约状态请求
type UpdateOrderStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

// UpdateTrackingRequest 更新物流单号请求
type UpdateTrackingRequest struct {
	TrackingNumber string `json:"tracking_number"`
}

// UpdateNotesRequest 更新备注请求
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// AttachGatewayRefRequest 绑定网关账单号请求
type AttachGatewayRefRequest struct {
	GatewayRef string `json:"gateway_ref" binding:"required"`
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePageQuery(c)

	createdFrom, err := handlershared.ParseDateQuery(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return
	}
	createdTo, err := handlershared.ParseDateQuery(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return
	}
	if createdTo != nil && isDateOnly(c.Query("to")) {
		end := createdTo.AddDate(0, 0, 1).Add(-time.Nanosecond)
		createdTo = &end
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		CustomerState: strings.TrimSpace(c.Query("state")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		respondWithMappedError(c, err, orderUpdateErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情（含订单项与状态历史）
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "error.order_not_found")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondWithMappedError(c, err, orderUpdateErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 更新履约状态并追加历史
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "error.order_not_found")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(service.UpdateOrderStatusInput{
		OrderID: orderID,
		Status:  req.Status,
		Message: req.Message,
		Caller:  currentCaller(c),
	})
	if err != nil {
		respondWithMappedError(c, err, orderUpdateErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}

	requestLog(c).Infow("admin_order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"status", order.Status,
		"operator", currentCaller(c),
	)
	response.Success(c, order)
}

// AdminUpdateOrderTracking 更新物流单号
func (h *Handler) AdminUpdateOrderTracking(c *gin.Context) {
	orderID, ok := parseIDParam(c, "error.order_not_found")
	if !ok {
		return
	}
	var req UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateTrackingNumber(orderID, req.TrackingNumber)
	if err != nil {
		respondWithMappedError(c, err, orderUpdateErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderNotes 更新订单备注
func (h *Handler) AdminUpdateOrderNotes(c *gin.Context) {
	orderID, ok := parseIDParam(c, "error.order_not_found")
	if !ok {
		return
	}
	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateNotes(orderID, req.Notes)
	if err != nil {
		respondWithMappedError(c, err, orderUpdateErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// AdminAttachGatewayRef 绑定支付网关账单号
func (h *Handler) AdminAttachGatewayRef(c *gin.Context) {
	orderID, ok := parseIDParam(c, "error.order_not_found")
	if !ok {
		return
	}
	var req AttachGatewayRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.gateway_ref_required", nil)
		return
	}

	order, err := h.OrderService.AttachGatewayRef(orderID, req.GatewayRef)
	if err != nil {
		respondWithMappedError(c, err, orderUpdateErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

func isDateOnly(raw string) bool {
	return len(strings.TrimSpace(raw)) == len("2006-01-02")
}
