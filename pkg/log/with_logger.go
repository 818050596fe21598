package log

import (
	"context"

	"go.uber.org/atomic"
)

// Binder 嵌入到组件中，为组件保存一个可替换的 Logger。
// 未绑定时使用全局 Logger。
type Binder struct {
	logger atomic.Pointer[MLogger]
}

// SetLogger 绑定 Logger，传入 nil 表示解除绑定。
func (w *Binder) SetLogger(logger *MLogger) {
	w.logger.Store(logger)
}

// Logger 返回绑定的 Logger。
func (w *Binder) Logger() *MLogger {
	if l := w.logger.Load(); l != nil {
		return l
	}
	return With()
}

// CtxLogger 优先返回 ctx 中通过 WithFields/WithCtxLogger 注入的 Logger，
// 其次返回绑定的 Logger。
func (w *Binder) CtxLogger(ctx context.Context) *MLogger {
	if ctx != nil {
		if l, ok := ctx.Value(CtxLogKey).(*MLogger); ok {
			return l
		}
	}
	return w.Logger()
}
