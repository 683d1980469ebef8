package sim

import (
	"log"
	"reflect"
)

// TickLogger is a hook that prints every block lifecycle operation the
// simulator invokes.
type TickLogger struct {
	LogHookBase
}

// NewTickLogger returns a TickLogger that writes into the logger.
func NewTickLogger(logger *log.Logger) *TickLogger {
	h := new(TickLogger)
	h.Logger = logger
	return h
}

// Func writes the operation information into the logger.
func (h *TickLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeBlockOp {
		return
	}

	b, ok := ctx.Item.(Block)
	if !ok {
		return
	}

	tt, ok := ctx.Domain.(TimeTeller)
	if ok {
		h.Logger.Printf("%.10f, %s -> %s.%s",
			tt.CurrentTime(), reflect.TypeOf(b), b.Name(), ctx.Detail)
	} else {
		h.Logger.Printf("%s.%s", b.Name(), ctx.Detail)
	}
}
