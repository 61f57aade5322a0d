package inits

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger 构建服务全局的 zap 日志器：调试模式输出人类可读的控制台格式，
// 生产模式输出结构化 JSON
func Logger(debugMode bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	if debugMode {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l, nil
}
