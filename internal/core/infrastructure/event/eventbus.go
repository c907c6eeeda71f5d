// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
)

// EventBus 是对asaskevich/EventBus的薄封装
//
// 停止后 Publish 静默丢弃，Subscribe 仍可调用（订阅在重启前不会触发）。
type EventBus struct {
	bus     evbus.Bus
	logger  log.Logger
	stopped atomic.Bool

	published atomic.Uint64
	dropped   atomic.Uint64
}

// New 创建事件总线实例
func New(logger log.Logger) *EventBus {
	return &EventBus{
		bus:    evbus.New(),
		logger: logger,
	}
}

var _ event.EventBus = (*EventBus)(nil)

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// Publish 发布事件
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if eb.stopped.Load() {
		eb.dropped.Add(1)
		return
	}
	eb.published.Add(1)
	if eb.logger != nil {
		eb.logger.Debugf("发布事件: %s", eventType)
	}
	eb.bus.Publish(string(eventType), args...)
}

// HasCallback 是否存在订阅者
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	return eb.bus.HasCallback(string(eventType))
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// Stop 停止接收新事件并等待异步 handler 结束
func (eb *EventBus) Stop() {
	if eb.stopped.CompareAndSwap(false, true) {
		eb.bus.WaitAsync()
	}
}

// Stats 返回已发布与停止后丢弃的事件数
func (eb *EventBus) Stats() (published, dropped uint64) {
	return eb.published.Load(), eb.dropped.Load()
}
