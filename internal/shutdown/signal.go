// Package shutdown turns process termination signals into context cancellation.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context derived from parent that is canceled on
// SIGTERM or SIGINT. Long scans watch this context and stop between files.
// The returned stop function releases the signal registration.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	return SetupSignalHandlerWithCallback(parent, nil)
}

// SetupSignalHandlerWithCallback behaves like SetupSignalHandler and calls
// callback with the received signal before canceling.
func SetupSignalHandlerWithCallback(parent context.Context, callback func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if callback != nil {
				callback(sig)
			}
			cancel()
		case <-ctx.Done():
			// Canceled elsewhere
		}
	}()

	return ctx, cancel
}
