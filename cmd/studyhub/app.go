package main

import (
	"bufio"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/studyhub/client"
	"github.com/kbukum/studyhub/config"
	"github.com/kbukum/studyhub/credential"
	"github.com/kbukum/studyhub/httpclient"
	"github.com/kbukum/studyhub/logger"
	"github.com/kbukum/studyhub/observability"
	"github.com/kbukum/studyhub/version"
)

const shutdownTimeout = 5 * time.Second

// app holds flags and the services built from them for one invocation.
type app struct {
	streams
	environ func() []string
	stdin   *bufio.Reader

	configFile string
	baseURL    string
	output     string
	verbose    bool

	cfg     config.Config
	log     *logger.Logger
	client  *client.Client
	closers []func(context.Context) error
}

func newApp(s streams, environ func() []string) *app {
	return &app{
		streams: s,
		environ: environ,
		stdin:   bufio.NewReader(s.in),
		log:     logger.Nop(),
	}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "studyhub",
		Short:         "Command-line client for the studyhub API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./config.yml or the user config directory)")
	flags.StringVar(&a.baseURL, "base-url", "", "backend origin, overrides api.base_url")
	flags.StringVarP(&a.output, "output", "o", outputJSON, "output format: json or yaml")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.refreshCmd(),
		a.getCmd(),
		a.searchCmd(),
		a.uploadCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads configuration and builds the client.
func (a *app) setup(ctx context.Context) error {
	if !slices.Contains([]string{outputJSON, outputYAML}, a.output) {
		return fmt.Errorf("--output must be %s or %s (got: %s)", outputJSON, outputYAML, a.output)
	}

	opts := []config.LoaderOption{config.WithEnviron(a.environ)}
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if err := config.LoadConfig(config.ServiceName, &a.cfg, opts...); err != nil {
		return err
	}
	if a.baseURL != "" {
		a.cfg.API.BaseURL = a.baseURL
	}
	if a.verbose {
		a.cfg.Logging.Level = "debug"
	}
	a.cfg.ApplyDefaults()
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log = logger.NewWithWriter(&a.cfg.Logging, a.cfg.Name, a.err)

	backend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	store := credential.NewStore(ctx, backend,
		credential.WithKey(a.cfg.Credentials.Key),
		credential.WithLogger(a.log),
	)
	session := credential.NewSessionJar(ctx, backend, credential.WithSessionLogger(a.log))
	tp, mp := a.initTelemetry(ctx)

	userAgent := a.cfg.API.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent(a.cfg.Name)
	}
	c, err := client.New(client.Options{
		HTTP: httpclient.Config{
			BaseURL:       a.cfg.API.BaseURL,
			Timeout:       a.cfg.API.Timeout,
			UploadTimeout: a.cfg.API.UploadTimeout,
			UserAgent:     userAgent,
		},
		Store:          store,
		CookieJar:      session,
		Logger:         a.log,
		TracerProvider: tp,
		MeterProvider:  mp,
	})
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

// openBackend opens the configured credential backend. It holds both the
// access token and the session cookies.
func (a *app) openBackend(ctx context.Context) (credential.Backend, error) {
	var backend credential.Backend
	switch a.cfg.Credentials.Backend {
	case config.BackendFile:
		b, err := credential.NewFileBackend(a.cfg.Credentials.Path)
		if err != nil {
			return nil, err
		}
		backend = b
	case config.BackendSQLite:
		b, err := credential.OpenSQLiteBackend(ctx, a.cfg.Credentials.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return b.Close() })
		backend = b
	case config.BackendMemory:
		backend = credential.NewMemoryBackend()
	default:
		backend = credential.NopBackend{}
	}

	a.log.Debug("credential backend opened", logger.Fields(
		logger.FieldBackend, a.cfg.Credentials.Backend,
	))
	return backend, nil
}

// initTelemetry starts OTLP export when enabled. Failures are logged and
// the global providers are used instead.
func (a *app) initTelemetry(ctx context.Context) (trace.TracerProvider, metric.MeterProvider) {
	t := a.cfg.Telemetry
	if !t.Enabled {
		return nil, nil
	}
	serviceVersion := version.Get().Version

	var tp trace.TracerProvider
	sdkTP, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    a.cfg.Name,
		ServiceVersion: serviceVersion,
		Environment:    a.cfg.Environment,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		SampleRate:     t.SampleRate,
	}, a.log)
	if err != nil {
		a.log.Warn("tracing disabled", logger.Fields(logger.FieldError, err.Error()))
	} else {
		tp = sdkTP
		a.closers = append(a.closers, sdkTP.Shutdown)
	}

	var mp metric.MeterProvider
	sdkMP, err := observability.InitMeter(ctx, observability.MeterConfig{
		ServiceName:    a.cfg.Name,
		ServiceVersion: serviceVersion,
		Environment:    a.cfg.Environment,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		Interval:       t.MetricInterval,
	}, a.log)
	if err != nil {
		a.log.Warn("metrics disabled", logger.Fields(logger.FieldError, err.Error()))
	} else {
		mp = sdkMP
		a.closers = append(a.closers, sdkMP.Shutdown)
	}
	return tp, mp
}

// teardown releases what setup opened, newest first.
func (a *app) teardown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}
	a.closers = nil
}
