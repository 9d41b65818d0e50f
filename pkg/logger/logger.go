package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// Options 日志输出参数，File 为空时只写控制台
type Options struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// InitLogger 初始化 zap 日志记录器并替换全局 logger
func InitLogger(opts Options) error {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	core := zapcore.NewCore(getEncoder(), getLogWriter(opts), level)

	Logger = zap.New(core, zap.AddCaller())
	Sugar = Logger.Sugar()

	zap.ReplaceGlobals(Logger)
	return nil
}

// getEncoder 设置日志编码格式
func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// getLogWriter 指定日志写入位置 (文件和控制台)
func getLogWriter(opts Options) zapcore.WriteSyncer {
	if opts.File == "" {
		return zapcore.AddSync(os.Stdout)
	}
	// 使用 lumberjack 实现日志切割和归档
	lumberJackLogger := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSize, 10),
		MaxBackups: orDefault(opts.MaxBackups, 5),
		MaxAge:     orDefault(opts.MaxAge, 30),
		Compress:   false,
	}
	return zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(lumberJackLogger))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
