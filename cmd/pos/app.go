package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restopos/internal/admin"
	"restopos/internal/api"
	"restopos/internal/commons"
	"restopos/internal/config"
	"restopos/internal/domain"
	apperrors "restopos/internal/errors"
	"restopos/internal/infrastructure/logger"
	"restopos/internal/infrastructure/tracing"
	"restopos/internal/kitchen"
	"restopos/internal/session"
)

// app is the composition root shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	session  *session.FileStore
	client   *api.Client
	admin    *admin.Service
	registry *prometheus.Registry
	kitchen  *kitchen.Metrics
	shutdown func(context.Context) error

	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

type globalFlags struct {
	configPath string
	logLevel   string
	apiURL     string
}

func newApp(flags globalFlags, in io.Reader, out, errOut io.Writer) (*app, error) {
	cfg, err := commons.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	host, _ := os.Hostname()
	shutdown, err := tracing.Init(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Endpoint:     cfg.Tracing.Endpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		Version:      Version,
		TerminalName: host,
	})
	if err != nil {
		return nil, err
	}

	store := session.NewFileStore(cfg.Session.File)
	if err := store.Load(); err != nil {
		zapLogger.Warn("reading saved session", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Breaker: api.BreakerConfig{
			MaxRequests:  cfg.Breaker.MaxRequests,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
			FailureRatio: cfg.Breaker.FailureRatio,
			MinRequests:  cfg.Breaker.MinRequests,
		},
	}, store, &loginHint{out: errOut}, api.NewMetrics(registry), zapLogger)

	return &app{
		cfg:      cfg,
		logger:   zapLogger,
		session:  store,
		client:   client,
		admin:    admin.NewService(client, zapLogger),
		registry: registry,
		kitchen:  kitchen.NewMetrics(registry),
		shutdown: shutdown,
		in:       bufio.NewReader(in),
		out:      out,
		err:      errOut,
	}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("flushing traces", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// currentUser returns the signed-in user or an UnauthorizedError telling the
// operator to log in.
func (a *app) currentUser() (domain.User, error) {
	user, ok := a.session.User()
	if !ok || !a.session.Authenticated() {
		return domain.User{}, apperrors.NewUnauthorizedError("not logged in, run `pos login` first")
	}
	return user, nil
}

func (a *app) requireRole(roles ...domain.Role) (domain.User, error) {
	user, err := a.currentUser()
	if err != nil {
		return user, err
	}
	for _, r := range roles {
		if user.Role == r {
			return user, nil
		}
	}
	return user, apperrors.NewForbiddenError(fmt.Sprintf("this command is not available to %s accounts", user.Role))
}

// prompt prints label and reads one trimmed line. EOF with no input is
// an error so scripted use fails instead of hanging.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// loginHint is the terminal's way back to the entry screen after a 401.
type loginHint struct {
	out io.Writer
}

func (h *loginHint) ToRoot() {
	fmt.Fprintln(h.out, "Your session has ended. Run `pos login` to sign in again.")
}

// withApp builds the app before the command runs and flushes the logger
// after it.
func withApp(flags *globalFlags, run func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(*flags, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()
		return run(a, cmd, args)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "pos",
		Short:         "Restaurant point of sale client",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `pos talks to the restaurant backend on behalf of cashiers, waiters,
chefs and admins.

Sign in with "pos login", then use "pos dashboard" for your role's landing
screen, "pos sell" to ring up orders and "pos kitchen watch" for the
kitchen display.`,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Backend base URL, overrides POS_API_URL")

	cmd.AddCommand(
		loginCmd(flags),
		logoutCmd(flags),
		meCmd(flags),
		dashboardCmd(flags),
		sellCmd(flags),
		ordersCmd(flags),
		kitchenCmd(flags),
		categoriesCmd(flags),
		menuCmd(flags),
		tablesCmd(flags),
		usersCmd(flags),
		reportsCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "pos version %s\n", Version)
			},
		},
	)

	return cmd
}
