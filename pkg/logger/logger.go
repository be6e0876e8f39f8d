package logger

import (
	"fmt"

	"go.uber.org/zap"
)

var InfoLogger, FatalLogger *zap.Logger

var (
	serviceName = "default"
)

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

// Init поднимает глобальные логгеры один раз на процесс.
func Init(service string) error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	InfoLogger = l
	FatalLogger = l
	SetServiceName(service)
	return nil
}

// без Init (тесты, утилиты) молча поднимаем дефолтный
func ensure() *zap.Logger {
	if InfoLogger == nil {
		InfoLogger, _ = zap.NewProduction()
		FatalLogger = InfoLogger
	}
	return InfoLogger
}

func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	ensure().With(
		zap.String("service", serviceName),
	).Info(msg)
}

func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	ensure().With(
		zap.String("service", serviceName),
	).Error(msg)
}

func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if FatalLogger == nil {
		FatalLogger = ensure()
	}
	FatalLogger.With(
		zap.String("service", serviceName),
	).Fatal(msg)
}
