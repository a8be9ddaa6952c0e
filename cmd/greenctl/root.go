package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/bitfsorg/libgreen-go/client"
	"github.com/bitfsorg/libgreen-go/config"
	"github.com/bitfsorg/libgreen-go/logging"
	"github.com/bitfsorg/libgreen-go/process"
	"github.com/bitfsorg/libgreen-go/staging"
	"github.com/bitfsorg/libgreen-go/txbuilder"
)

// app carries the state shared by all subcommands. exec may be preset to
// bypass the real runner.
type app struct {
	configFile  string
	dataDir     string
	executable  string
	timeout     time.Duration
	subaccount  uint32
	metricsFile string
	trace       bool

	cfg      config.Config
	logger   *zap.Logger
	exec     process.Executor
	registry *staging.Registry
	closers  []func() error
	out      io.Writer
}

// execute runs the command line args and releases everything setup opened.
func execute(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "greenctl",
		Short:         "Drive a green-cli wallet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	if a.out != nil {
		root.SetOut(a.out)
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "configuration file (default <datadir>/config)")
	pf.StringVar(&a.dataDir, "datadir", "", "data directory (default ~/.green)")
	pf.StringVar(&a.executable, "executable", "", "wallet executable")
	pf.DurationVar(&a.timeout, "timeout", 0, "per-invocation timeout, negative disables it")
	pf.Uint32Var(&a.subaccount, "subaccount", 0, "wallet subaccount")
	pf.StringVar(&a.metricsFile, "metrics-textfile", "", "write invocation metrics to this file on exit")
	pf.BoolVar(&a.trace, "trace", false, "print invocation spans to stderr")

	root.AddCommand(
		newBalanceCmd(a),
		newFeesCmd(a),
		newAddressCmd(a),
		newAddressesCmd(a),
		newValidateCmd(a),
		newUtxosCmd(a),
		newTxsCmd(a),
		newTxCmd(a),
		newSubaccountsCmd(a),
		newSummaryCmd(a),
		newSendCmd(a),
		newStagedCmd(a),
		newSweepCmd(a),
	)
	return root
}

// setup resolves the configuration and builds the logger and executor.
// Flags beat the environment, which beats the file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.executable != "" {
		cfg.Executable = a.executable
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		a.logger = logger
		a.closers = append(a.closers, func() error {
			_ = logger.Sync()
			return nil
		})
	}

	if a.exec != nil {
		return nil
	}

	opts := []process.Option{
		process.WithExecutable(cfg.Executable),
		process.WithTimeout(cfg.Timeout),
		process.WithLogger(a.logger),
	}

	if a.metricsFile != "" {
		reg := prometheus.NewRegistry()
		metrics, err := process.NewMetrics(reg)
		if err != nil {
			return err
		}
		opts = append(opts, process.WithMetrics(metrics))
		path := a.metricsFile
		a.closers = append(a.closers, func() error {
			return prometheus.WriteToTextfile(path, reg)
		})
	}

	if a.trace {
		exp, err := stdouttrace.New(
			stdouttrace.WithWriter(cmd.ErrOrStderr()),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		opts = append(opts, process.WithTracerProvider(tp))
		a.closers = append(a.closers, func() error {
			return tp.Shutdown(context.Background())
		})
	}

	a.exec = process.NewRunner(opts...)
	return nil
}

func (a *app) loadConfig() (config.Config, error) {
	if a.configFile == "" {
		return config.Resolve(a.dataDir)
	}

	cfg, err := config.LoadConfig(a.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if cfg, err = config.FromEnv(cfg); err != nil {
		return config.Config{}, err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	return cfg, nil
}

// openRegistry opens the artifact registry on first use.
func (a *app) openRegistry() (*staging.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}
	reg, err := staging.Open(a.cfg.RegistryPath())
	if err != nil {
		return nil, err
	}
	a.registry = reg
	a.closers = append(a.closers, reg.Close)
	return reg, nil
}

// client builds a wallet client. Builders it makes stage artifacts under the
// configured staging directory and record them in reg when non-nil.
func (a *app) client(reg *staging.Registry) *client.Client {
	bopts := []txbuilder.Option{
		txbuilder.WithDir(a.cfg.StagingPath()),
		txbuilder.WithRetain(a.cfg.RetainArtifacts),
		txbuilder.WithTimeout(a.cfg.Timeout),
		txbuilder.WithLogger(a.logger),
	}
	if reg != nil {
		bopts = append(bopts, txbuilder.WithRegistry(reg))
	}
	return client.New(a.exec,
		client.WithLogger(a.logger),
		client.WithBuilderOptions(bopts...),
	)
}

// subaccountOpt returns the --subaccount value when it was given.
func (a *app) subaccountOpt(cmd *cobra.Command) fn.Option[uint32] {
	if cmd.Flags().Changed("subaccount") {
		return fn.Some(a.subaccount)
	}
	return fn.None[uint32]()
}

// close releases resources in reverse order of acquisition.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
