package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/xssnick/tonutils-go/address"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/cli/config"
	"github.com/yndnr/nftsnap/internal/cli/output"
	"github.com/yndnr/nftsnap/internal/core/domain"
	"github.com/yndnr/nftsnap/internal/infra/buildinfo"
	"github.com/yndnr/nftsnap/internal/infra/shutdown"
	"github.com/yndnr/nftsnap/internal/infra/tlsroots"
	"github.com/yndnr/nftsnap/internal/telemetry/logger"
	"github.com/yndnr/nftsnap/internal/telemetry/metric"
)

const envKey = "env"

// ClientFactory opens a network client for cfg.
type ClientFactory func(ctx context.Context, cfg *config.Config) (chain.Client, error)

// SenderFactory opens the configured wallet. client is the value
// returned by the ClientFactory.
type SenderFactory func(ctx context.Context, cfg *config.Config, client chain.Client) (chain.Sender, error)

// Env is the per-invocation state shared by commands.
type Env struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metric.Registry
	Out     io.Writer
	Err     io.Writer
	Format  output.Format
	Wide    bool

	shutdown  *shutdown.Handler
	newClient ClientFactory
	newSender SenderFactory

	raw    chain.Client
	client chain.Client
	sender chain.Sender
}

// envFrom returns the Env prepared by the Before hook.
func envFrom(c *cli.Context) *Env {
	env, _ := c.App.Metadata[envKey].(*Env)
	return env
}

// Client returns the network client, opening it on first use. Every
// get-method is timed in the metrics registry.
func (e *Env) Client(ctx context.Context) (chain.Client, error) {
	if e.client != nil {
		return e.client, nil
	}

	raw, err := e.newClient(ctx, e.Config)
	if err != nil {
		return nil, err
	}
	if closer, ok := raw.(io.Closer); ok {
		e.shutdown.OnClose(closer.Close)
	}

	e.raw = raw
	e.client = chain.Instrument(raw, e.Metrics)
	return e.client, nil
}

// Sender returns the configured wallet, opening it on first use.
func (e *Env) Sender(ctx context.Context) (chain.Sender, error) {
	if e.sender != nil {
		return e.sender, nil
	}
	if strings.TrimSpace(e.Config.Wallet.Mnemonic) == "" {
		return nil, domain.ErrWalletMissing
	}
	if _, err := e.Client(ctx); err != nil {
		return nil, err
	}

	sender, err := e.newSender(ctx, e.Config, e.raw)
	if err != nil {
		return nil, err
	}
	e.sender = sender
	return sender, nil
}

// Collection returns the configured collection address.
func (e *Env) Collection() (*address.Address, error) {
	if strings.TrimSpace(e.Config.Collection.Address) == "" {
		return nil, domain.ErrCollectionAddressMissing
	}
	return chain.ParseAddress(e.Config.Collection.Address)
}

// Print writes data in the selected output format.
func (e *Env) Print(data any) error {
	return output.NewFormatter(e.Format, e.Wide).Format(e.Out, data)
}

// Close runs the registered shutdown hooks.
func (e *Env) Close() error {
	return e.shutdown.Shutdown()
}

// DialNetwork is the default ClientFactory.
func DialNetwork(ctx context.Context, cfg *config.Config) (chain.Client, error) {
	switch cfg.Network.Provider {
	case config.ProviderLiteserver:
		url := cfg.Network.Config
		if url == "" {
			url = chain.MainnetConfigURL
			if cfg.Network.Name == "testnet" {
				url = chain.TestnetConfigURL
			}
		}
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Network.Timeout)
		defer cancel()
		return chain.DialLiteServers(dialCtx, url)

	default:
		endpoint := cfg.Network.Endpoint
		if endpoint == "" {
			endpoint = chain.MainnetToncenterEndpoint
			if cfg.Network.Name == "testnet" {
				endpoint = chain.TestnetToncenterEndpoint
			}
		}

		tc := chain.NewToncenter(endpoint, cfg.Network.Key).
			WithUserAgent("nftsnap/" + buildinfo.Get().Version)
		if cfg.Network.CAFile != "" {
			hc, err := tlsroots.ClientForCAFile(cfg.Network.CAFile, cfg.Network.Timeout)
			if err != nil {
				return nil, domain.ErrInvalidConfig.WithDetails("network.cafile").WithCause(err)
			}
			tc.WithHTTPClient(hc)
		}
		return tc, nil
	}
}

// OpenWallet is the default SenderFactory. Sending requires the
// liteserver provider.
func OpenWallet(_ context.Context, cfg *config.Config, client chain.Client) (chain.Sender, error) {
	lc, ok := client.(*chain.LiteClient)
	if !ok {
		return nil, domain.ErrSendUnsupported.WithDetails(
			fmt.Sprintf("provider %q is read-only, use --provider %s", cfg.Network.Provider, config.ProviderLiteserver))
	}
	sender, err := lc.NewWalletSender(strings.Fields(cfg.Wallet.Mnemonic), cfg.Wallet.Version)
	if err != nil {
		return nil, err
	}
	sender.SetWaitConfirmation(cfg.Wallet.Wait)
	return sender, nil
}
