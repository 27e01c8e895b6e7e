package constants

// 履约状态常量
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusPosted     = "POSTED"
	OrderStatusOnDelivery = "ON_DELIVERY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusRefunded   = "REFUNDED"
)

// 支付状态常量（与履约状态相互独立）
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// 用户角色常量
const (
	RoleCustomer  = "CUSTOMER"
	RoleAdmin     = "ADMIN"
	RoleMarketing = "MARKETING"
	RolePacker    = "PACKER"
)

// 订单默认值
const (
	DefaultCustomerState = "W"
	DefaultPaymentMethod = "toyyibpay"
	OrderNoPrefix        = "PG"
	AffiliateCodePrefix  = "PG"
)

// 状态历史默认文案
const (
	HistoryMessageOrderCreated    = "Order created"
	HistoryMessageOrderProcessing = "Order processing"
	HistoryMessageOrderPosted     = "Order posted"
	HistoryMessageOutForDelivery  = "Out for delivery"
	HistoryMessageOrderDelivered  = "Order delivered"
	HistoryMessageOrderCancelled  = "Order cancelled"
	HistoryMessagePaymentReceived = "Payment received"
)

// 系统内置操作人
const (
	CallerSystem  = "system"
	CallerGateway = "gateway:toyyibpay"
)

// 支付回调结果
const (
	CallbackOutcomePaid     = "paid"
	CallbackOutcomePending  = "pending"
	CallbackOutcomeFailed   = "failed"
	CallbackOutcomeUnknown  = "unknown"
	CallbackOutcomeNotFound = "not_found"
)

// 验证码场景
const (
	CaptchaSceneLogin = "login"
)

// 队列名称与任务类型
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderStatusNotify    = "order:status_notify"
	TaskOrderPaymentReceived = "order:payment_received"
)

// 订单通知事件
const (
	NotificationEventStatusChanged   = "order_status_changed"
	NotificationEventPaymentReceived = "order_payment_received"
)
