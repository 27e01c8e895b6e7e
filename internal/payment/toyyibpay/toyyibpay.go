package toyyibpay

import (
	"errors"
	"strings"
)

// Gateway 网关名称
const Gateway = "toyyibpay"

// ProviderName 对外展示名称
const ProviderName = "ToyyibPay"

var (
	ErrReferenceMissing = errors.New("toyyibpay callback refno missing")
)

// Status 网关回调状态（封闭枚举，未识别值统一为 StatusUnknown）
type Status int

const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusPending
	StatusFailed
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseStatus 解析网关状态码：1/success、3/pending、2/failed，其余为未知
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "success":
		return StatusSuccess
	case "3", "pending":
		return StatusPending
	case "2", "failed":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// CallbackData 回调参数
type CallbackData struct {
	RefNo    string // 账单参考号，用于定位订单
	Status   string // 原始状态码
	Amount   string // 金额（仅记录，不参与校验）
	BillCode string
	OrderID  string
}

// ParseCallback 从表单或查询参数解析回调
func ParseCallback(form map[string][]string) (*CallbackData, error) {
	data := &CallbackData{
		RefNo:    strings.TrimSpace(firstValue(form, "refno")),
		Status:   strings.TrimSpace(firstValue(form, "status")),
		Amount:   strings.TrimSpace(firstValue(form, "amount")),
		BillCode: strings.TrimSpace(firstValue(form, "billcode")),
		OrderID:  strings.TrimSpace(firstValue(form, "order_id")),
	}
	if data.RefNo == "" {
		return data, ErrReferenceMissing
	}
	return data, nil
}

func firstValue(form map[string][]string, key string) string {
	if values, ok := form[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}
