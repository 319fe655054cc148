package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nftsnap/internal/cli/config"
	"github.com/yndnr/nftsnap/internal/cli/output"
	"github.com/yndnr/nftsnap/internal/core/domain"
	"github.com/yndnr/nftsnap/internal/core/service"
	"github.com/yndnr/nftsnap/internal/infra/buildinfo"
	"github.com/yndnr/nftsnap/internal/infra/shutdown"
	"github.com/yndnr/nftsnap/internal/telemetry/logger"
	"github.com/yndnr/nftsnap/internal/telemetry/metric"
)

// Option configures the application.
type Option func(*appOptions)

type appOptions struct {
	out, err  io.Writer
	newClient ClientFactory
	newSender SenderFactory
}

// WithOutput redirects command output and diagnostics.
func WithOutput(out, err io.Writer) Option {
	return func(o *appOptions) {
		o.out = out
		o.err = err
	}
}

// WithClientFactory replaces the network dialer.
func WithClientFactory(f ClientFactory) Option {
	return func(o *appOptions) {
		o.newClient = f
	}
}

// WithSenderFactory replaces the wallet opener.
func WithSenderFactory(f SenderFactory) Option {
	return func(o *appOptions) {
		o.newSender = f
	}
}

// App creates the CLI application.
func App(opts ...Option) *cli.App {
	o := &appOptions{
		out:       os.Stdout,
		err:       os.Stderr,
		newClient: DialNetwork,
		newSender: OpenWallet,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &cli.App{
		Name:      "nftsnap",
		Usage:     "Snapshot and manage TON NFT collections",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Writer:    o.out,
		ErrWriter: o.err,
		Metadata:  map[string]any{},
		Commands: []*cli.Command{
			SnapshotCommand(),
			CollectionCommand(),
			ItemCommand(),
			MintCommand(),
			TransferCommand(),
			ChangeOwnerCommand(),
			ChangePriceCommand(),
			ChangeContentCommand(),
			DeployCommand(),
			CheckpointCommand(),
			ConfigCommand(),
		},
		Before: func(c *cli.Context) error {
			return setup(c, o)
		},
		After: func(c *cli.Context) error {
			if env := envFrom(c); env != nil {
				return env.Close()
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.nftsnap/config.yaml if present)",
			EnvVars: []string{"NFTSNAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "network",
			Aliases: []string{"n"},
			Usage:   "Network: mainnet, testnet",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Network access: toncenter, liteserver",
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "toncenter JSON-RPC endpoint",
			EnvVars: []string{"TONCENTER_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "toncenter API key",
			EnvVars: []string{"TONCENTER_KEY"},
		},
		&cli.StringFlag{
			Name:    "collection",
			Usage:   "NFT collection address",
			EnvVars: []string{"NFT_COLLECTION"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// flagKeys maps global flags to configuration keys.
var flagKeys = map[string]string{
	"network":    "network.name",
	"provider":   "network.provider",
	"endpoint":   "network.endpoint",
	"api-key":    "network.key",
	"collection": "collection.address",
	"log-level":  "log.level",
}

// flagOverrides collects the configuration keys set on the command line.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
	}
	return overrides
}

func setup(c *cli.Context, o *appOptions) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"), flagOverrides(c))
	if err != nil {
		return err
	}

	lcfg := logger.DefaultConfig()
	lcfg.Level = cfg.Log.Level
	lcfg.Format = cfg.Log.Format
	lcfg.Output = o.err
	log, err := logger.New(lcfg)
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	runID := logger.NewRunID()
	ctx := logger.WithRunID(logger.WithLogger(c.Context, log), runID)
	c.Context = ctx

	c.App.Metadata[envKey] = &Env{
		Config:    cfg,
		Logger:    log.With("run_id", runID),
		Metrics:   metric.NewRegistry(),
		Out:       o.out,
		Err:       o.err,
		Format:    format,
		Wide:      c.Bool("wide"),
		shutdown:  shutdown.NewHandler(10 * time.Second),
		newClient: o.newClient,
		newSender: o.newSender,
	}
	return nil
}

// Run executes the application and returns the process exit status.
// SIGINT and SIGTERM cancel the running command.
func Run(args []string, opts ...Option) int {
	app := App(opts...)

	ctx, stop := shutdown.NewHandler(0).Context(context.Background())
	defer stop()

	if err := app.RunContext(ctx, args); err != nil {
		PrintError(app.ErrWriter, err)
		if service.IsInterrupted(err) {
			return 130
		}
		return 1
	}
	return 0
}

// PrintError prints err to w in the CLI error format. Causes wrapped by
// domain errors are appended, since DomainError.Error omits them.
func PrintError(w io.Writer, err error) {
	msg := err.Error()
	var de *domain.DomainError
	if errors.As(err, &de) && de.Cause != nil {
		msg += ": " + de.Cause.Error()
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}
