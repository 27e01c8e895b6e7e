package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/logger"

	"go.uber.org/zap"
)

// Mode 启动模式，决定进程内运行哪些服务
type Mode string

const (
	ModeAll    Mode = "all"
	ModeAPI    Mode = "api"
	ModeWorker Mode = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// ParseMode 空值视为 all
func ParseMode(raw string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	}
	return "", fmt.Errorf("unknown mode %q (expected all, api or worker)", raw)
}

func (m Mode) servesHTTP() bool { return m == ModeAll || m == ModeAPI }

func (m Mode) runsWorker() bool { return m == ModeAll || m == ModeWorker }

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            Mode
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.S()
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = defaultShutdownTimeout
	}
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	return o
}
