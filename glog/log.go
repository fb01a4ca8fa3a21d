package glog

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const runModeEnv = "vector_hub_run_mode"

func StdError(logContent string) {
	logContent = strings.TrimSpace(logContent)
	os.Stderr.WriteString(fmt.Sprintf("[%s]%s\n", time.Now().Format("2006-01-02 15:04:05"), logContent))
}

func StdInfo(logContent string) {
	logContent = strings.TrimSpace(logContent)
	os.Stdout.WriteString(fmt.Sprintf("[%s]%s\n", time.Now().Format("2006-01-02 15:04:05"), logContent))
}

var logger *zap.Logger

func init() {

	if logger != nil {
		return
	}

	logConfig := zap.NewProductionEncoderConfig()
	logConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.EncodeLevel = func(level zapcore.Level, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString("[" + level.CapitalString() + "]")
	}

	logEncoder := zapcore.NewConsoleEncoder(logConfig)

	logDebugLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl == zapcore.DebugLevel
	})

	logInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl == zapcore.InfoLevel
	})

	logWarnLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.WarnLevel
	})

	var cores []zapcore.Core

	logHandle, logErr := openLogFile()
	if logErr != nil {
		StdError(logErr.Error())
	} else {
		cores = append(cores,
			zapcore.NewCore(logEncoder, zapcore.AddSync(logHandle), logInfoLevel),
			zapcore.NewCore(logEncoder, zapcore.AddSync(logHandle), logWarnLevel),
		)
	}

	logMode := os.Getenv(runModeEnv)

	if !strings.EqualFold(logMode, "release") || logErr != nil {
		cores = append(cores,
			zapcore.NewCore(logEncoder, zapcore.AddSync(os.Stdout), logDebugLevel),
			zapcore.NewCore(logEncoder, zapcore.AddSync(os.Stdout), logInfoLevel),
			zapcore.NewCore(logEncoder, zapcore.AddSync(os.Stderr), logWarnLevel),
		)
	}

	logger = zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	)

	if logger != nil {
		zap.ReplaceGlobals(logger)
	}
}

func openLogFile() (*rotatelogs.RotateLogs, error) {

	appFilePath, appErr := filepath.Abs(os.Args[0])
	if appErr != nil {
		return nil, appErr
	}

	logFileDir := path.Join(filepath.Dir(appFilePath), "log")
	if dirErr := os.MkdirAll(logFileDir, 0755); dirErr != nil {
		return nil, dirErr
	}

	logFileFormat := path.Join(logFileDir, "app_%Y%m%d.log")

	return rotatelogs.New(logFileFormat,
		rotatelogs.WithClock(rotatelogs.Local),
		rotatelogs.WithMaxAge(24*time.Hour))
}

// Sync flushes buffered entries, call before exit.
func Sync() {
	if logger == nil {
		return
	}
	_ = logger.Sync()
}

func Debug(args ...interface{}) {
	if logger == nil {
		return
	}

	logger.Debug(fmt.Sprint(args...))
}

func DebugF(format string, args ...interface{}) {
	if logger == nil {
		return
	}

	logger.Debug(fmt.Sprintf(format, args...))
}

func Info(args ...interface{}) {

	if logger == nil {
		return
	}

	logData := fmt.Sprint(args...)
	logger.Info(logData)
}

func InfoF(format string, args ...interface{}) {

	if logger == nil {
		return
	}

	logData := fmt.Sprintf(format, args...)
	logger.Info(logData)
}

func Warn(args ...interface{}) {
	if logger == nil {
		return
	}

	logData := fmt.Sprint(args...)
	logger.Warn(logData)
}

func WarnF(format string, args ...interface{}) {
	if logger == nil {
		return
	}

	logData := fmt.Sprintf(format, args...)
	logger.Warn(logData)
}

func Error(args ...interface{}) {
	if logger == nil {
		return
	}

	logData := fmt.Sprint(args...)
	logger.Error(logData)
}

func ErrorF(format string, args ...interface{}) {
	if logger == nil {
		return
	}

	logData := fmt.Sprintf(format, args...)
	logger.Error(logData)
}
