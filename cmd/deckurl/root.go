package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/deckurl/bootstrap"
	"github.com/kbukum/deckurl/config"
	"github.com/kbukum/deckurl/deckcache"
	"github.com/kbukum/deckurl/logger"
	"github.com/kbukum/deckurl/validation"
	"github.com/kbukum/deckurl/version"
)

// errNotFound is returned by get when the deal has no deck URL.
var errNotFound = errors.New("not found")

// maxDealIDLength bounds deal ids accepted on the command line.
const maxDealIDLength = 256

type rootFlags struct {
	configFile   string
	envFile      string
	backend      string
	durableFirst bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "deckurl",
		Short: "Store and look up the pitch-deck URL of a deal",
		Long: "deckurl keeps the most recent deck URL per deal in a two-tier cache:\n" +
			"an in-process map in front of a durable key-value backend.",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Path to config.yml (default: searched)")
	pf.StringVar(&flags.envFile, "env-file", "", "Path to a .env file (default: searched)")
	pf.StringVar(&flags.backend, "backend", "", "Durable backend: memory, redis, sqlite, local, s3, supabase")
	pf.BoolVar(&flags.durableFirst, "durable-first", false, "Write the durable tier before the memory tier")

	root.AddCommand(
		newSetCmd(flags),
		newGetCmd(flags),
		newClearCmd(flags),
		newBackendsCmd(flags),
		newHealthCmd(flags),
	)
	return root
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig(flags *rootFlags) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if flags.backend != "" {
		cfg.Deckcache.Backend = flags.backend
	}
	if flags.durableFirst {
		cfg.Deckcache.DurableFirst = true
	}
	return cfg, nil
}

// runWithCache boots the application around one cache operation. Each
// invocation is a fresh process lifetime: the memory tier starts empty.
func runWithCache(ctx context.Context, flags *rootFlags, fn func(ctx context.Context, cache *deckcache.Cache) error) error {
	return runWithApp(ctx, flags, func(ctx context.Context, _ *bootstrap.App[*AppConfig], cache *deckcache.Cache) error {
		return fn(ctx, cache)
	})
}

// runWithApp is runWithCache for tasks that also inspect the application,
// such as its component health.
func runWithApp(ctx context.Context, flags *rootFlags, fn func(ctx context.Context, app *bootstrap.App[*AppConfig], cache *deckcache.Cache) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	be, err := newDurable(app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(be.component); err != nil {
		return err
	}
	setupTelemetry(app)

	var cache *deckcache.Cache
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		opts := []deckcache.Option{deckcache.WithLogger(a.Logger.WithComponent("deckcache"))}
		if a.Cfg.Deckcache.DurableFirst {
			opts = append(opts, deckcache.WithDurableFirst())
		}
		cache = deckcache.New(be.store(), opts...)
		return nil
	})

	ctx = logger.ContextWithRequestID(ctx, uuid.NewString())
	return app.RunTask(ctx, func(ctx context.Context) error {
		return fn(ctx, app, cache)
	})
}

// validateDealID rejects ids that cannot be typed back on a command line.
// The cache itself only rejects the empty id.
func validateDealID(dealID string) error {
	return validation.New().
		Required("deal_id", dealID).
		MaxLength("deal_id", dealID, maxDealIDLength).
		NoControlChars("deal_id", dealID).
		Err()
}
