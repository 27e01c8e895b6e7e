package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/payment/toyyibpay"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// 网关回调应答状态
const (
	webhookStatusSuccess  = "success"
	webhookStatusPending  = "pending"
	webhookStatusFailed   = "failed"
	webhookStatusUnknown  = "unknown"
	webhookStatusNotFound = "not_found"
	webhookStatusError    = "error"
)

// ToyyibPayWebhook ToyyibPay 支付回调（form 或 query 参数）
// 订单不存在时仍返回 200，避免网关无限重试
func (h *Handler) ToyyibPayWebhook(c *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			requestLog(c).Errorw("toyyibpay_webhook_panic_recovered", "panic", rec)
			webhookReply(c, http.StatusInternalServerError, webhookStatusError, "Webhook processing failed")
		}
	}()

	if err := c.Request.ParseForm(); err != nil {
		requestLog(c).Warnw("toyyibpay_webhook_form_invalid", "error", err)
	}
	callback, err := toyyibpay.ParseCallback(c.Request.Form)
	if err != nil {
		requestLog(c).Warnw("toyyibpay_webhook_missing_refno", "client_ip", c.ClientIP())
		webhookReply(c, http.StatusBadRequest, webhookStatusError, "Missing refno")
		return
	}
	refno := callback.RefNo

	result, err := h.PaymentService.HandleGatewayCallback(c.Request.Context(), service.GatewayCallbackInput{
		Reference:  refno,
		StatusCode: callback.Status,
		Amount:     callback.Amount,
		Source:     webhookSource(c, callback),
	})
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			webhookReply(c, http.StatusOK, webhookStatusNotFound, "Order not found")
			return
		}
		requestLog(c).Errorw("toyyibpay_webhook_failed", "refno", refno, "error", err)
		webhookReply(c, http.StatusInternalServerError, webhookStatusError, "Webhook processing failed")
		return
	}

	switch result.Outcome {
	case constants.CallbackOutcomePaid:
		webhookReply(c, http.StatusOK, webhookStatusSuccess, "Payment processed")
	case constants.CallbackOutcomePending:
		webhookReply(c, http.StatusOK, webhookStatusPending, "Payment pending")
	case constants.CallbackOutcomeFailed:
		webhookReply(c, http.StatusOK, webhookStatusFailed, "Payment failed")
	case constants.CallbackOutcomeNotFound:
		webhookReply(c, http.StatusOK, webhookStatusNotFound, "Order not found")
	default:
		webhookReply(c, http.StatusOK, webhookStatusUnknown, "Unknown status")
	}
}

func webhookReply(c *gin.Context, httpStatus int, status, message string) {
	c.JSON(httpStatus, gin.H{
		"status":  status,
		"message": message,
	})
}

func webhookSource(c *gin.Context, callback *toyyibpay.CallbackData) string {
	parts := []string{"ip:" + c.ClientIP()}
	if callback.BillCode != "" {
		parts = append(parts, "billcode:"+callback.BillCode)
	}
	if callback.OrderID != "" {
		parts = append(parts, "order_id:"+callback.OrderID)
	}
	return strings.Join(parts, " ")
}
