package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.Mutex
	log *zap.Logger
)

// Init инициализирует глобальный логгер. isDev включает человекочитаемый вывод.
func Init(isDev bool) error {
	mu.Lock()
	defer mu.Unlock()

	var (
		l   *zap.Logger
		err error
	)
	if isDev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	log = l
	return nil
}

// L возвращает глобальный логгер (no-op, если Init не вызывался).
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if log != nil {
		_ = log.Sync()
	}
}
