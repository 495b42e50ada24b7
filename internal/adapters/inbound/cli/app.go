package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/abdidvp/storediag/internal/adapters/outbound/config"
	"github.com/abdidvp/storediag/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/storediag/internal/adapters/outbound/history"
	"github.com/abdidvp/storediag/internal/adapters/outbound/loader"
	"github.com/abdidvp/storediag/internal/adapters/outbound/lock"
	"github.com/abdidvp/storediag/internal/adapters/outbound/marketing"
	"github.com/abdidvp/storediag/internal/adapters/outbound/notify"
	"github.com/abdidvp/storediag/internal/adapters/outbound/settings"
	"github.com/abdidvp/storediag/internal/adapters/outbound/store"
	"github.com/abdidvp/storediag/internal/adapters/outbound/telemetry"
	"github.com/abdidvp/storediag/internal/application"
	"github.com/abdidvp/storediag/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	settingsFile string
	envFile      string
	dataDir      string
	configDir    string
}

func (f *rootFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.settingsFile, "settings", "", "Runtime settings file (default ./storediag.yaml if present)")
	pf.StringVar(&f.envFile, "env-file", "", "dotenv file to load (default .env if present)")
	pf.StringVar(&f.dataDir, "data-dir", "", "Directory holding reports/, customers/, results/ and history/")
	pf.StringVar(&f.configDir, "config-dir", "", "Directory holding "+config.FileName)
}

// loadSettings applies flag overrides on top of settings.Load.
func (f *rootFlags) loadSettings() (*settings.Settings, error) {
	s, err := settings.Load(settings.LoadOptions{ConfigFile: f.settingsFile, EnvFile: f.envFile})
	if err != nil {
		return nil, err
	}
	if f.dataDir != "" {
		s.DataDir = f.dataDir
	}
	if f.configDir != "" {
		s.ConfigDir = f.configDir
	}
	return s, nil
}

// loadConfig reads and validates the diagnostics config of the config dir.
func (f *rootFlags) loadConfig(s *settings.Settings) (domain.DiagnosticsConfig, error) {
	l, err := config.New()
	if err != nil {
		return domain.DiagnosticsConfig{}, err
	}
	cfg, err := l.Load(s.ConfigDir)
	if err != nil {
		return domain.DiagnosticsConfig{}, fmt.Errorf("loading %s: %w", config.Path(s.ConfigDir), err)
	}
	return cfg, nil
}

// app is every collaborator of one CLI invocation, wired from settings.
type app struct {
	settings  *settings.Settings
	logger    *slog.Logger
	telemetry *telemetry.Provider
	pipeline  *application.Pipeline
	results   store.Store
	history   *history.FileHistory

	diagnostic *application.DiagnosticService
	workflow   *application.WorkflowService
	batch      *application.BatchService

	closers []func() error
}

func newApp(ctx context.Context, f *rootFlags, logOut io.Writer) (a *app, err error) {
	s, err := f.loadSettings()
	if err != nil {
		return nil, err
	}
	logger, err := telemetry.NewLogger(s.Log.Level, s.Log.Format, logOut)
	if err != nil {
		return nil, err
	}

	a = &app{settings: s, logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close(ctx)
		}
	}()

	a.telemetry, err = telemetry.New(ctx, telemetry.Config{
		ServiceName:    s.Telemetry.ServiceName,
		ServiceVersion: version,
		Endpoint:       s.Telemetry.Endpoint,
		Insecure:       s.Telemetry.Insecure,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return a.telemetry.Shutdown(context.Background()) })

	cfg, err := f.loadConfig(s)
	if err != nil {
		return nil, err
	}
	if a.pipeline, err = application.NewPipeline(cfg); err != nil {
		return nil, err
	}

	a.results, err = store.New(ctx, store.Options{
		Backend:  s.Store.Backend,
		DataDir:  s.DataDir,
		DSN:      s.Store.DSN,
		Table:    s.Store.Table,
		Bucket:   s.Store.Bucket,
		Prefix:   s.Store.Prefix,
		Region:   s.Store.Region,
		Endpoint: s.Store.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("opening result store: %w", err)
	}
	a.closers = append(a.closers, a.results.Close)

	locker, err := a.newLocker(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := store.NewValidator()
	if err != nil {
		return nil, err
	}
	notifier, err := a.newNotifier()
	if err != nil {
		return nil, err
	}

	rev, err := gitinfo.New().Revision(config.Path(s.ConfigDir))
	if err != nil {
		logger.Warn("reading config revision", "error", err)
	}
	a.history = history.New(s.DataDir)

	opts := []application.Option{
		application.WithLogger(logger),
		application.WithTracer(a.telemetry.Tracer()),
		application.WithMeter(a.telemetry.Meter()),
		application.WithTimeout(s.RunTimeout),
		application.WithValidator(validator),
		application.WithHistory(a.history),
		application.WithNotifier(notifier),
		application.WithConfigRevision(rev),
		application.WithWorkers(s.Concurrency),
	}
	if s.RateLimit > 0 {
		opts = append(opts, application.WithRateLimit(rate.NewLimiter(rate.Limit(s.RateLimit), 1)))
	}

	reports := loader.NewFileReports(s.DataDir)
	a.diagnostic = application.NewDiagnosticService(a.pipeline, a.results, locker, opts...)
	a.batch = application.NewBatchService(a.pipeline, a.diagnostic, reports, opts...)
	a.workflow = application.NewWorkflowService(a.pipeline, a.diagnostic, reports,
		loader.NewFileCustomers(s.DataDir),
		application.Marketing{
			Insights:   marketing.NewRuleInsights(),
			Targets:    marketing.NewRuleTargets(),
			Strategies: marketing.NewRuleStrategies(),
			KPIs:       marketing.NewRuleKPIs(),
		},
		opts...)
	return a, nil
}

func (a *app) newLocker(ctx context.Context) (domain.KeyLocker, error) {
	if a.settings.Lock.Backend != "redis" {
		return lock.NewKeyedMutex(), nil
	}
	l := a.settings.Lock
	client, err := lock.DialRedis(ctx, l.RedisAddr, l.RedisPassword, l.RedisDB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return lock.NewRedisLocker(client, l.TTL), nil
}

func (a *app) newNotifier() (domain.Notifier, error) {
	d := a.settings.Discord
	if d.Token == "" {
		return notify.Nop{}, nil
	}
	return notify.NewDiscord(d.Token, d.ChannelID)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close(context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// withApp builds the app for cmd, runs fn and closes the app.
func withApp(cmd *cobra.Command, f *rootFlags, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, f, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	runErr := fn(ctx, a)
	if err := a.Close(ctx); err != nil {
		a.logger.Warn("closing", "error", err)
	}
	return runErr
}
