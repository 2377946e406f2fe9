package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
	"restopos/internal/kitchen"
	"restopos/internal/order/usecase"
	"restopos/internal/poller"
	"restopos/internal/server"
)

func kitchenCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kitchen",
		Short: "Kitchen display",
	}
	cmd.AddCommand(kitchenWatchCmd(flags))
	return cmd
}

func kitchenWatchCmd(flags *globalFlags) *cobra.Command {
	var listen string
	var autoRefresh bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the kitchen board and advance orders",
		Long: `Shows pending, preparing and ready orders, oldest first, and refreshes
them on an interval while auto refresh is on.

Input while watching:
  r                  refresh now
  a                  toggle auto refresh
  <order-id> <status> move an order, e.g. "12 ready"
  q                  quit

With --listen the last good board is also served as JSON on /board, with
/healthz and /metrics next to it.`,
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.requireRole(domain.RoleChef, domain.RoleAdmin, domain.RoleCashier); err != nil {
				return err
			}
			w := newKitchenWatch(a, autoRefresh)
			if listen == "" && a.cfg.Board.Port > 0 {
				listen = fmt.Sprintf(":%d", a.cfg.Board.Port)
			}
			return w.run(cmd.Context(), listen)
		}),
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Serve the board over HTTP on this address, e.g. :8090")
	cmd.Flags().BoolVar(&autoRefresh, "auto-refresh", true, "Refresh on an interval")
	return cmd
}

type kitchenWatch struct {
	app     *app
	display *kitchen.Display
	poller  *poller.Poller
	status  *usecase.UpdateStatusUseCase
	mu      sync.Mutex
}

func newKitchenWatch(a *app, autoRefresh bool) *kitchenWatch {
	w := &kitchenWatch{
		app:     a,
		display: kitchen.NewDisplay(a.client, a.kitchen, a.logger),
		status:  usecase.NewUpdateStatusUseCase(a.client, a.logger),
	}
	w.display.OnUpdate(w.draw)
	w.poller = poller.New("kitchen", a.cfg.Polling.KitchenInterval, w.display.Fetch, a.logger)
	w.poller.SetEnabled(autoRefresh)
	return w
}

func (w *kitchenWatch) draw(b kitchen.Board) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := kitchen.Render(w.app.out, b); err != nil {
		w.app.logger.Warn("drawing kitchen board", zap.Error(err))
	}
	state := "on"
	if !w.poller.Enabled() {
		state = "off"
	}
	fmt.Fprintf(w.app.out, "\nauto refresh %s | r refresh, a toggle, <id> <status>, q quit\n", state)
}

func (w *kitchenWatch) run(ctx context.Context, listen string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var srv *server.Server
	if listen != "" {
		router := server.NewRouter(
			kitchen.NewController(w.display, w.app.logger),
			w.app.registry,
			server.RouterConfig{RequestsPerSecond: w.app.cfg.Board.RequestsPerSecond, Burst: w.app.cfg.Board.Burst},
			w.app.logger,
		)
		srv = server.New(listen, router, w.app.logger)
		go func() {
			if err := srv.Start(); err != nil {
				w.app.logger.Error("kitchen board server", zap.Error(err))
				cancel()
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.poller.Run(ctx)
	}()

	lines := make(chan string)
	go w.readInput(lines)

	for done := false; !done; {
		select {
		case <-ctx.Done():
			done = true
		case line, ok := <-lines:
			if !ok || w.handle(ctx, line) {
				done = true
			}
		}
	}

	cancel()
	wg.Wait()
	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stopping board server: %w", err)
		}
	}
	return nil
}

// readInput forwards stdin lines until EOF. The goroutine is left blocked
// on stdin when the watch ends for another reason; the process exits next.
func (w *kitchenWatch) readInput(out chan<- string) {
	defer close(out)
	for {
		line, err := w.app.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			out <- line
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				w.app.logger.Warn("reading input", zap.Error(err))
			}
			return
		}
	}
}

// handle runs one input line and reports whether the watch should stop.
func (w *kitchenWatch) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "q", "quit", "exit":
		return true
	case "r", "refresh":
		w.poller.Refresh()
		return false
	case "a", "auto":
		w.poller.SetEnabled(!w.poller.Enabled())
		w.draw(w.display.Board())
		return false
	}

	if err := w.advance(ctx, fields); err != nil {
		w.mu.Lock()
		fmt.Fprintf(w.app.out, "error: %s\n", apperrors.UserMessage(err))
		w.mu.Unlock()
		return false
	}
	w.poller.Refresh()
	return false
}

func (w *kitchenWatch) advance(ctx context.Context, fields []string) error {
	if len(fields) != 2 {
		return apperrors.NewValidationError("usage: <order-id> <status>")
	}
	id, err := intArg(fields, 0, "order-id")
	if err != nil {
		return err
	}
	target, err := domain.ParseOrderStatus(fields[1])
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	ticket, ok := w.display.Board().Ticket(id)
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %d is not on the board", id))
	}
	_, err = w.status.UpdateStatus(ctx, ticket.Order, target)
	return err
}
