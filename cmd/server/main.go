package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/polaroid-next/internal/app"
	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/logger"

	"github.com/gin-gonic/gin"
)

const banner = "\033[36m\033[1mPolaroid Next API\033[0m\n" +
	"\033[2mprint orders / toyyibpay reconciliation / fulfillment\033[0m\n"

func main() {
	modeFlag := flag.String("mode", string(app.ModeAll), "启动模式: all (默认), api, worker")
	flag.Parse()
	fmt.Print(banner)

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	mode, err := app.ParseMode(*modeFlag)
	if err != nil {
		stdLog.Fatalf("启动模式无效: %v", err)
	}

	switch {
	case !cfg.JWT.WeakSecret():
	case cfg.Server.IsRelease():
		stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
	default:
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	if err := app.PrepareDatabase(cfg); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	if cfg.Server.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	err = app.Run(app.Options{
		Config:  cfg,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	})
	if err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}
