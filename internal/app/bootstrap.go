package app

import (
	"errors"
	"fmt"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/provider"
	"github.com/polaroid-next/internal/router"
	"github.com/polaroid-next/internal/worker"
)

// PrepareDatabase 连接数据库、迁移表结构并写入初始数据
func PrepareDatabase(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return SeedDefaults(cfg)
}

// SeedDefaults 初始化默认管理员与尺寸目录（已有数据时跳过）
func SeedDefaults(cfg *config.Config) error {
	if cfg.Server.IsRelease() && cfg.Bootstrap.AdminPassword == "" {
		logger.Warnw("bootstrap_admin_skipped", "reason", "admin_password_missing_in_release")
	} else if err := models.InitDefaultAdmin(cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		return fmt.Errorf("init default admin: %w", err)
	}

	seeds := make([]models.PrintSizeSeed, 0, len(cfg.Bootstrap.PrintSizes))
	for _, item := range cfg.Bootstrap.PrintSizes {
		seeds = append(seeds, models.PrintSizeSeed{
			ID:          item.ID,
			Name:        item.Name,
			DisplayName: item.DisplayName,
			Width:       item.Width,
			Height:      item.Height,
			Price:       item.Price,
		})
	}
	if err := models.SeedPrintSizes(seeds); err != nil {
		return fmt.Errorf("seed print sizes: %w", err)
	}
	return nil
}

// BuildRunner 按启动模式组装 HTTP 与队列 worker
func BuildRunner(cfg *config.Config, mode Mode) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, errors.New("worker mode requires queue.enabled")
	}

	container := provider.NewContainer(cfg)
	services, err := buildServices(cfg, mode, container)
	if err != nil {
		container.Close()
		return nil, err
	}

	runner := NewRunner(services...)
	runner.AddCleanup(func() {
		if err := models.CloseDB(); err != nil {
			logger.Warnw("app_close_database_failed", "error", err)
		}
	})
	// 逆序执行：先关闭队列与 Redis，再关闭数据库
	runner.AddCleanup(container.Close)
	return runner, nil
}

func buildServices(cfg *config.Config, mode Mode, container *provider.Container) ([]Service, error) {
	var services []Service
	if mode.servesHTTP() {
		services = append(services, NewHTTPService(cfg.Server.Addr(), router.SetupRouter(cfg, container)))
	}
	if mode.runsWorker() {
		if !cfg.Queue.Enabled {
			logger.Warnw("worker_disabled", "reason", "queue_disabled")
			return services, nil
		}
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, fmt.Errorf("init worker: %w", err)
		}
		services = append(services, workerService)
	}
	return services, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = opts.withDefaults()
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
