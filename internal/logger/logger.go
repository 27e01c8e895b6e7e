package logger

import (
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	current  atomic.Pointer[zap.Logger]
	fallback = sync.OnceValue(func() *zap.Logger {
		return newLogger(consoleEncoder(), zapcore.Lock(os.Stdout), zap.InfoLevel)
	})
)

// Init 按运行模式创建全局日志并替换 zap 全局实例
// debug 模式输出彩色控制台日志，其余模式写 JSON 滚动文件
func Init(mode string, options Options) *zap.Logger {
	l := New(mode, options)
	current.Store(l)
	zap.ReplaceGlobals(l)
	return l
}

// New 创建独立日志实例，不影响全局
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := options.level(debug)
	if debug {
		return newLogger(consoleEncoder(), zapcore.Lock(os.Stdout), level)
	}
	sink, err := options.fileSink()
	if err != nil {
		fallback().Warn("log_file_unavailable", zap.Error(err))
		return newLogger(jsonEncoder(), zapcore.Lock(os.Stdout), level)
	}
	return newLogger(jsonEncoder(), sink, level)
}

func newLogger(encoder zapcore.Encoder, sink zapcore.WriteSyncer, level zapcore.LevelEnabler) *zap.Logger {
	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller(), zap.AddCallerSkip(1))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func jsonEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(encoderConfig())
}

func consoleEncoder() zapcore.Encoder {
	cfg := encoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Z 全局日志，未初始化时返回控制台兜底实例
func Z() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return fallback()
}

func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW 附带固定字段
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

// StdLogger 供 cmd 入口使用的标准库 log 适配
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

func Sync() {
	_ = Z().Sync()
}

func Debugw(msg string, kv ...interface{}) { S().Debugw(msg, kv...) }
func Infow(msg string, kv ...interface{})  { S().Infow(msg, kv...) }
func Warnw(msg string, kv ...interface{})  { S().Warnw(msg, kv...) }
func Errorw(msg string, kv ...interface{}) { S().Errorw(msg, kv...) }
