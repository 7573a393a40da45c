package workqueue

import (
	"context"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Decorator wraps an operation with execution-context logic, such as
// adjusting the environment of the worker thread for the item's priority.
// It is invoked by the worker right before the item runs, outside the
// queue lock.
type Decorator func(prio Priority, op Operation) Operation

// ChainDecorators composes decorators into one.
// The first decorator in the list is the outermost wrapper.
//
// Example: ChainDecorators(logging, pin) executes as:
//
//	logging → pin → operation
func ChainDecorators(ds ...Decorator) Decorator {
	return func(prio Priority, op Operation) Operation {
		for i := len(ds) - 1; i >= 0; i-- {
			if ds[i] != nil {
				op = ds[i](prio, op)
			}
		}
		return op
	}
}

// LoggingDecorator logs the start and the end of every operation using the
// logger carried by ctx.
func LoggingDecorator(ctx context.Context) Decorator {
	return func(prio Priority, op Operation) Operation {
		return func() error {
			logger := lg.FromContext(ctx).With(lg.Any("priority", prio))
			logger.Info("operation started")

			start := time.Now()
			err := op()
			elapsed := time.Since(start)

			if err != nil {
				logger.Error("operation failed",
					lg.String("elapsed", elapsed.String()),
					lg.Any("error", err),
				)
			} else {
				logger.Info("operation finished", lg.String("elapsed", elapsed.String()))
			}
			return err
		}
	}
}
