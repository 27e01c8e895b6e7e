package i18n

var catalog = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":              "Bad request",
		"error.unauthorized":             "Unauthorized",
		"error.forbidden":                "Forbidden",
		"error.internal":                 "Internal server error",
		"error.jwt_secret_missing":       "Token secret is not configured",
		"error.auth_header_missing":      "Authorization header is required",
		"error.auth_header_invalid":      "Authorization header is invalid",
		"error.token_invalid":            "Token is invalid",
		"error.token_revoked":            "Token has been revoked",
		"error.user_disabled":            "Account is disabled",
		"error.login_invalid":            "Invalid email or password",
		"error.login_too_many":           "Too many attempts, please retry in %d seconds",
		"error.rate_limited":             "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter unavailable",
		"error.captcha_required":         "Captcha is required",
		"error.captcha_invalid":          "Captcha is invalid",
		"error.captcha_disabled":         "Captcha is disabled",
		"error.email_invalid":            "Email is invalid",
		"error.email_exists":             "Email is already registered",
		"error.password_weak":            "Password does not meet the policy",
		"error.user_not_found":           "User not found",
		"error.user_fetch_failed":        "Failed to load users",
		"error.user_update_failed":       "Failed to update user",
		"error.user_create_failed":       "Failed to create user",
		"error.role_invalid":             "Role is invalid",
		"error.role_builtin":             "Builtin role cannot be modified",
		"error.affiliate_code_exists":    "User already has an affiliate code",
		"error.order_not_found":          "Order not found",
		"error.order_item_invalid":       "Order items are invalid",
		"error.order_customer_invalid":   "Customer name and email are required",
		"error.order_create_failed":      "Failed to create order",
		"error.order_no_conflict":        "Order number collision, please retry",
		"error.order_fetch_failed":       "Failed to load orders",
		"error.order_update_failed":      "Failed to update order",
		"error.order_status_invalid":     "Order status is invalid",
		"error.caller_required":          "Caller identity is required",
		"error.gateway_ref_required":     "Gateway reference is required",
		"error.print_size_not_found":     "Print size not found",
		"error.print_size_inactive":      "Print size is not available",
		"error.print_size_exists":        "Print size already exists",
		"error.print_size_invalid":       "Print size is invalid",
		"error.print_size_fetch_failed":  "Failed to load print sizes",
		"error.print_size_save_failed":   "Failed to save print size",
		"error.stats_fetch_failed":       "Failed to load statistics",
		"error.date_range_invalid":       "Date range is invalid",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"email.order_status.subject":     "Order %s: %s",
		"email.order_status.body":        "Hi %s,\n\nYour order %s is now %s.\n%s\n\nOrder total: %s",
		"email.order_status.tracking":    "Tracking number: %s",
		"order.status.pending":           "pending",
		"order.status.processing":        "being processed",
		"order.status.posted":            "posted",
		"order.status.on_delivery":       "out for delivery",
		"order.status.delivered":         "delivered",
		"order.status.cancelled":         "cancelled",
		"order.status.refunded":          "refunded",
		"order.payment.paid":             "paid",
	},
	LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未授权",
		"error.forbidden":                "无权限访问",
		"error.internal":                 "服务器内部错误",
		"error.token_invalid":            "登录凭证无效",
		"error.user_disabled":            "账号已禁用",
		"error.login_invalid":            "邮箱或密码错误",
		"error.login_too_many":           "尝试次数过多，请 %d 秒后重试",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.captcha_invalid":          "验证码错误",
		"error.order_not_found":          "订单不存在",
		"error.order_item_invalid":       "订单项无效",
		"error.order_create_failed":      "订单创建失败",
		"error.order_status_invalid":     "订单状态无效",
		"error.print_size_not_found":     "尺寸不存在",
		"error.print_size_exists":        "尺寸已存在",
		"error.affiliate_code_exists":    "该用户已有推广码",
		"error.role_builtin":             "内置角色不可删除",
		"error.stats_fetch_failed":       "统计数据获取失败",
		"error.password_min_length":      "密码长度至少 %d 位",
		"email.order_status.subject":     "订单 %s：%s",
		"email.order_status.body":        "%s 您好，\n\n您的订单 %s 当前状态：%s。\n%s\n\n订单金额：%s",
		"email.order_status.tracking":    "物流单号：%s",
		"order.status.pending":           "待处理",
		"order.status.processing":        "处理中",
		"order.status.posted":            "已寄出",
		"order.status.on_delivery":       "派送中",
		"order.status.delivered":         "已签收",
		"order.status.cancelled":         "已取消",
		"order.status.refunded":          "已退款",
		"order.payment.paid":             "已支付",
		"error.jwt_secret_missing":       "登录密钥未配置",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 请求头格式错误",
		"error.token_revoked":            "登录凭证已失效",
		"error.rate_limit_unavailable":   "限流服务不可用",
		"error.captcha_required":         "请输入验证码",
		"error.captcha_disabled":         "验证码未启用",
		"error.email_invalid":            "邮箱格式错误",
		"error.email_exists":             "邮箱已注册",
		"error.password_weak":            "密码不符合安全策略",
		"error.user_not_found":           "用户不存在",
		"error.user_fetch_failed":        "用户列表获取失败",
		"error.user_update_failed":       "用户更新失败",
		"error.user_create_failed":       "用户创建失败",
		"error.role_invalid":             "角色无效",
		"error.order_customer_invalid":   "收件人姓名与邮箱必填",
		"error.order_no_conflict":        "订单号冲突，请重试",
		"error.order_fetch_failed":       "订单获取失败",
		"error.order_update_failed":      "订单更新失败",
		"error.caller_required":          "缺少操作人信息",
		"error.gateway_ref_required":     "缺少网关账单号",
		"error.print_size_inactive":      "该尺寸已下架",
		"error.print_size_invalid":       "尺寸参数无效",
		"error.print_size_fetch_failed":  "尺寸获取失败",
		"error.print_size_save_failed":   "尺寸保存失败",
		"error.date_range_invalid":       "日期范围无效",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
	},
}
