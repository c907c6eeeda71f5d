// Package event 定义事件总线接口
package event

// EventType 事件类型，命名采用 domain.action 格式
type EventType string

// EventBus 事件总线接口
//
// handler 为任意函数，参数需与 Publish 时传入的 args 一一对应。
type EventBus interface {
	// Subscribe 同步订阅，Publish 返回前 handler 已执行完毕
	Subscribe(eventType EventType, handler interface{}) error

	// SubscribeAsync 异步订阅；transactional 为 true 时同一 handler 串行执行
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error

	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error

	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})

	// HasCallback 是否存在订阅者
	HasCallback(eventType EventType) bool

	// WaitAsync 等待所有异步 handler 执行完毕
	WaitAsync()
}
