// Command pos is the terminal client of the restaurant POS backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	apperrors "restopos/internal/errors"
)

const Version = "0.1.0"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Ctrl-C ends watch modes through the command context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apperrors.UserMessage(err))
		if ve, ok := apperrors.IsValidationError(err); ok {
			for _, d := range ve.Details {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", d.Field, d.Message)
			}
		}
		os.Exit(1)
	}
}
