package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志级别与滚动文件参数，零值字段取默认
type Options struct {
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) level(debug bool) zapcore.Level {
	if lvl, err := zapcore.ParseLevel(strings.TrimSpace(o.Level)); err == nil && o.Level != "" {
		return lvl
	}
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// path 日志文件绝对路径，目录默认为工作目录下 logs/
func (o Options) path() (string, error) {
	dir := strings.TrimSpace(o.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := strings.TrimSpace(o.Filename)
	if name == "" {
		name = "app.log"
	}
	return filepath.Join(dir, name), nil
}

// fileSink 打开滚动文件；先试写一次，避免权限问题拖到第一条日志才暴露
func (o Options) fileSink() (zapcore.WriteSyncer, error) {
	path, err := o.path()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	_ = f.Close()
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(o.MaxSizeMB, 100),
		MaxBackups: orDefault(o.MaxBackups, 7),
		MaxAge:     orDefault(o.MaxAgeDays, 30),
		Compress:   o.Compress,
	}), nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
