// Command qsarstats reads a results collection described by a manifest and
// prints POD and MOE distributions, performance summaries and model key
// groupings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lciaqsar/qsarstats/analysis"
	"github.com/lciaqsar/qsarstats/config"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/store"
)

// app carries what the persistent flags resolve to.
type app struct {
	configPath   string
	manifestPath string
	logLevel     string
	envFile      string
	timeout      time.Duration

	settings *config.Settings
	store    *store.File
	analyzer *analysis.Analyzer
	logger   log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "qsarstats",
		Short: "Uncertainty and aggregation engine for cross-validated QSAR results",
		Long: `qsarstats turns stored cross-validation results into POD and margin of
exposure distributions with prediction intervals, and summarizes model
performances across model keys.

Model keys are given "-"-joined, e.g. general-in-RandomForestRegressor.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings YAML (or set "+config.EnvConfigPath+")")
	flags.StringVar(&a.manifestPath, "manifest", "", "results manifest YAML (or set "+config.EnvManifest+")")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (or set "+config.EnvLogLevel+")")
	flags.StringVar(&a.envFile, "env", ".env", "dotenv file read before the environment")
	flags.DurationVar(&a.timeout, "timeout", 5*time.Minute, "operation timeout")

	root.AddCommand(
		a.keysCmd(),
		a.groupCmd(),
		a.podCmd(),
		a.moeCmd(),
		a.summaryCmd(),
		a.describeCmd(),
		a.compareCmd(),
		a.outOfSampleCmd(),
	)
	return root
}

// setup loads settings, opens the manifest and builds the analyzer.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadFromEnv(a.envFile, a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		settings.LogLevel = a.logLevel
	}
	if a.manifestPath != "" {
		settings.Manifest = a.manifestPath
	}
	a.settings = settings

	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	zl := log.NewZerologLogger(cmd.ErrOrStderr(), level)
	zl.InstallWarnings()
	a.logger = zl.With(log.RunIDKey, uuid.NewString())

	if settings.Manifest == "" {
		return errors.NewValueError("qsarstats", "no manifest given; use --manifest or "+config.EnvManifest)
	}
	fs, err := store.OpenFile(settings.Manifest)
	if err != nil {
		return err
	}
	a.store = fs

	a.analyzer, err = analysis.New(fs, fs, settings, analysis.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.logger.Debug("opened results collection", "manifest", settings.Manifest)
	return nil
}

// context returns a context bound to the timeout and interrupted by SIGINT
// or SIGTERM.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, a.timeout)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

// parseKeys turns "-"-joined arguments into keys and checks their arity.
func (a *app) parseKeys(ctx context.Context, args []string) ([]modelkey.Key, error) {
	names, err := a.store.ReadModelKeyNames(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]modelkey.Key, len(args))
	for i, arg := range args {
		k := modelkey.Parse(arg)
		if err := names.Validate(k); err != nil {
			return nil, errors.Wrapf(err, "model key %q (dimensions: %s)", arg, strings.Join(names, ", "))
		}
		keys[i] = k
	}
	return keys, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
