package provider

import (
	"github.com/polaroid-next/internal/authz"
	"github.com/polaroid-next/internal/cache"
	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/i18n"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/queue"
	"github.com/polaroid-next/internal/repository"
	"github.com/polaroid-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	OrderRepo     repository.OrderRepository
	PrintSizeRepo repository.PrintSizeRepository
	StatsRepo     repository.StatsRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CaptchaService      *service.CaptchaService
	UserService         *service.UserService
	PrintSizeService    *service.PrintSizeService
	OrderService        *service.OrderService
	PaymentService      *service.PaymentService
	StatsService        *service.StatsService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存（未启用时缓存、回调锁与登录态校验均降级为直连数据库）
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PrintSizeRepo = repository.NewPrintSizeRepository(db)
	c.StatsRepo = repository.NewStatsRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config.JWT, c.Config.Security.PasswordPolicy, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserService = service.NewUserService(c.UserRepo)
	c.PrintSizeService = service.NewPrintSizeService(c.PrintSizeRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.PrintSizeRepo, c.UserRepo, c.QueueClient, c.Config.Order)
	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.QueueClient, c.Config.Payment)
	c.StatsService = service.NewStatsService(c.StatsRepo, c.Config.Stats, c.Config.Payment)

	notifiers := []service.Notifier{service.LogNotifier{}}
	if emailNotifier := service.NewEmailNotifier(c.Config.Email, i18n.DefaultLocale); emailNotifier != nil {
		notifiers = append(notifiers, emailNotifier)
	} else {
		logger.Debugw("provider_email_notifier_disabled")
	}
	c.NotificationService = service.NewNotificationService(c.OrderRepo, notifiers...)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
