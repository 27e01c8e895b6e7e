package queue

import (
	"encoding/json"

	"github.com/polaroid-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	TaskOrderStatusNotify    = constants.TaskOrderStatusNotify
	TaskOrderPaymentReceived = constants.TaskOrderPaymentReceived
)

// OrderStatusNotifyPayload 履约状态变更通知
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Caller  string `json:"caller"`
}

// OrderPaymentReceivedPayload 首次到账通知，Amount 为两位小数字符串
type OrderPaymentReceivedPayload struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
	Amount  string `json:"amount"`
}

func newJSONTask(taskType string, payload any) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}

func parseJSON[T any](body []byte) (T, error) {
	var payload T
	err := json.Unmarshal(body, &payload)
	return payload, err
}

func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderStatusNotify, payload)
}

func NewOrderPaymentReceivedTask(payload OrderPaymentReceivedPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderPaymentReceived, payload)
}

func ParseOrderStatusNotifyPayload(body []byte) (OrderStatusNotifyPayload, error) {
	return parseJSON[OrderStatusNotifyPayload](body)
}

func ParseOrderPaymentReceivedPayload(body []byte) (OrderPaymentReceivedPayload, error) {
	return parseJSON[OrderPaymentReceivedPayload](body)
}
