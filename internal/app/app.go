// Package app 组装并运行账本服务进程
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// stopTimeout 停止超时，需覆盖 HTTP 优雅关闭与 BadgerDB 同步
const stopTimeout = 30 * time.Second

// App 账本服务的对外接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 阻塞直到收到退出信号，然后停止应用
	Wait() error
}

// internalApp 应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	<-signals
	return a.Stop()
}

// Start 启动账本服务
func Start(appOptions ...Option) (App, error) {
	return BootstrapApp(appOptions...)
}
