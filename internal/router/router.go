package router

import (
	"net/http"
	"strings"

	"github.com/polaroid-next/internal/cache"
	"github.com/polaroid-next/internal/config"
	adminhandlers "github.com/polaroid-next/internal/http/handlers/admin"
	publichandlers "github.com/polaroid-next/internal/http/handlers/public"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// routeDeps 路由注册所需的处理器与限流规则
type routeDeps struct {
	container *provider.Container
	public    *publichandlers.Handler
	admin     *adminhandlers.Handler
	redis     *redis.Client
	login     RateLimitRule
	webhook   RateLimitRule
}

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()
	r.Use(
		RecoveryMiddleware(),
		RequestIDMiddleware(),
		LoggerMiddleware(logger.Z()),
		CORSMiddleware(cfg.CORS),
	)

	deps := routeDeps{
		container: c,
		public:    publichandlers.New(c),
		admin:     adminhandlers.New(c),
		redis:     cache.Client(),
		login:     newRateLimitRule(cfg, "login", cfg.Security.LoginRateLimit, "error.login_too_many"),
		webhook:   newRateLimitRule(cfg, "webhook", cfg.Security.WebhookRateLimit, "error.rate_limited"),
	}

	// 网关侧回调地址不带版本前缀
	r.POST("/api/webhooks/toyyibpay", deps.webhookLimiter(), deps.public.ToyyibPayWebhook)

	apiV1 := r.Group("/api/v1")
	apiV1.POST("/webhooks/toyyibpay", deps.webhookLimiter(), deps.public.ToyyibPayWebhook)
	registerPublicRoutes(apiV1, deps)
	registerUserRoutes(apiV1, deps)
	admin := registerAdminRoutes(apiV1, deps)
	admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
		response.Success(ctx, buildAdminPermissionCatalog(r))
	})

	r.GET("/health", healthCheck)
	return r
}

func newRateLimitRule(cfg *config.Config, scope string, limit config.RateLimitConfig, messageKey string) RateLimitRule {
	prefix := strings.TrimSpace(cfg.Redis.Prefix)
	if prefix == "" {
		prefix = "pg"
	}
	return RateLimitRule{
		Prefix:        prefix + ":rate:" + scope,
		WindowSeconds: limit.WindowSeconds,
		MaxRequests:   limit.MaxAttempts,
		BlockSeconds:  limit.BlockSeconds,
		MessageKey:    messageKey,
	}
}

func (d routeDeps) webhookLimiter() gin.HandlerFunc {
	return RateLimitMiddleware(d.redis, d.webhook, KeyByIP)
}

func registerPublicRoutes(apiV1 *gin.RouterGroup, d routeDeps) {
	public := apiV1.Group("/public")
	public.GET("/print-sizes", d.public.ListPrintSizes)
	public.GET("/print-sizes/:id", d.public.GetPrintSize)
	public.GET("/orders/:order_no", d.public.TrackOrder)
	public.GET("/captcha/config", d.public.GetCaptchaConfig)
	public.GET("/captcha/image", d.public.GetImageCaptcha)

	// 游客或已登录用户下单
	apiV1.POST("/orders", OptionalJWTAuthMiddleware(d.container.AuthService), d.public.CreateOrder)

	auth := apiV1.Group("/auth")
	auth.POST("/register", RateLimitMiddleware(d.redis, d.login, KeyByIP), d.public.UserRegister)
	auth.POST("/login", RateLimitMiddleware(d.redis, d.login, KeyByIPAndJSONField("email")), d.public.UserLogin)
}

func registerUserRoutes(apiV1 *gin.RouterGroup, d routeDeps) {
	me := apiV1.Group("/me", JWTAuthMiddleware(d.container.AuthService))
	me.GET("", d.public.GetCurrentUser)
	me.GET("/orders", d.public.ListMyOrders)
}

func registerAdminRoutes(apiV1 *gin.RouterGroup, d routeDeps) *gin.RouterGroup {
	h := d.admin
	admin := apiV1.Group("/admin",
		JWTAuthMiddleware(d.container.AuthService),
		AdminRBACMiddleware(d.container.AuthzService),
	)

	orders := admin.Group("/orders")
	orders.GET("", h.AdminListOrders)
	orders.GET("/:id", h.AdminGetOrder)
	orders.PATCH("/:id/status", h.AdminUpdateOrderStatus)
	orders.PATCH("/:id/tracking", h.AdminUpdateOrderTracking)
	orders.PATCH("/:id/notes", h.AdminUpdateOrderNotes)
	orders.PATCH("/:id/gateway-ref", h.AdminAttachGatewayRef)

	sizes := admin.Group("/print-sizes")
	sizes.GET("", h.AdminListPrintSizes)
	sizes.GET("/:id", h.AdminGetPrintSize)
	sizes.POST("", h.AdminCreatePrintSize)
	sizes.PUT("/:id", h.AdminUpdatePrintSize)
	sizes.DELETE("/:id", h.AdminDeletePrintSize)

	users := admin.Group("/users")
	users.GET("", h.AdminListUsers)
	users.GET("/count-by-role", h.AdminCountUsersByRole)
	users.GET("/:id", h.AdminGetUser)
	users.PATCH("/:id/role", h.AdminUpdateUserRole)
	users.PATCH("/:id/toggle-active", h.AdminToggleUserActive)
	users.POST("/:id/affiliate-code", h.AdminGenerateAffiliateCode)

	stats := admin.Group("/stats")
	stats.GET("/overview", h.AdminStatsOverview)
	stats.GET("/by-status", h.AdminStatsByStatus)
	stats.GET("/by-state", h.AdminStatsByState)
	stats.GET("/top-sizes", h.AdminStatsTopSizes)
	stats.GET("/daily-sales", h.AdminStatsDailySales)
	stats.GET("/payment-costs", h.AdminStatsPaymentCosts)

	authzGroup := admin.Group("/authz")
	authzGroup.GET("/me", h.GetAuthzMe)
	authzGroup.GET("/roles", h.ListAuthzRoles)
	authzGroup.POST("/roles", h.CreateAuthzRole)
	authzGroup.DELETE("/roles/:role", h.DeleteAuthzRole)
	authzGroup.GET("/roles/:role/policies", h.GetAuthzRolePolicies)
	authzGroup.POST("/policies", h.GrantAuthzPolicy)
	authzGroup.DELETE("/policies", h.RevokeAuthzPolicy)

	return admin
}

// healthCheck 数据库不可达时返回 503
func healthCheck(c *gin.Context) {
	status := gin.H{"status": "ok", "redis": cache.Enabled()}
	if models.DB != nil {
		if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}
	c.JSON(http.StatusOK, status)
}
