package observability

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoverPanic recovers from a panic and logs it with structured logging.
//
// Usage in defer statements:
//
//	func riskyOperation() {
//	    defer observability.RecoverPanic(logger, "risky operation")
//	    // ... code that might panic
//	}
//
// After logging, the panic is NOT re-raised - the function returns normally.
func RecoverPanic(logger *logrus.Logger, context string) {
	if r := recover(); r != nil {
		logger.WithFields(logrus.Fields{
			"panic":   r,
			"stack":   string(debug.Stack()),
			"context": context,
		}).Error("PANIC recovered")
	}
}

// RecoverPanicWithCallback recovers from a panic, logs it, and executes a
// callback. The callback runs only when a panic occurred, after logging it,
// which allows cleanup actions like closing channels or releasing locks.
func RecoverPanicWithCallback(logger *logrus.Logger, context string, callback func()) {
	if r := recover(); r != nil {
		logger.WithFields(logrus.Fields{
			"panic":   r,
			"stack":   string(debug.Stack()),
			"context": context,
		}).Error("PANIC recovered")
		if callback != nil {
			callback()
		}
	}
}

// MustRecover converts a recovered panic value to an error. Returns nil when
// r is nil.
func MustRecover(r interface{}) error {
	if r != nil {
		return fmt.Errorf("panic: %v", r)
	}
	return nil
}
