package chain

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

// Global liteserver configs.
const (
	MainnetConfigURL = "https://ton.org/global.config.json"
	TestnetConfigURL = "https://ton.org/testnet-global.config.json"
)

// LiteClient is a Client backed by a pool of liteserver connections.
type LiteClient struct {
	pool *liteclient.ConnectionPool
	api  ton.APIClientWrapped
}

// DialLiteServers connects to the liteservers listed in the global config at configURL.
func DialLiteServers(ctx context.Context, configURL string) (*LiteClient, error) {
	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("liteclient: add connections from %s: %w", configURL, err)
	}

	return &LiteClient{
		pool: pool,
		api:  ton.NewAPIClient(pool).WithRetry(),
	}, nil
}

// LastBlock returns the current masterchain block.
func (c *LiteClient) LastBlock(ctx context.Context) (*domain.BlockShort, error) {
	b, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("liteclient: masterchain info: %w", err)
	}
	return &domain.BlockShort{
		Seqno:     int64(b.SeqNo),
		Shard:     strconv.FormatInt(b.Shard, 10),
		Workchain: b.Workchain,
	}, nil
}

// RunGetMethod runs method against the latest masterchain state.
func (c *LiteClient) RunGetMethod(ctx context.Context, addr *address.Address, method string, args ...any) (Stack, error) {
	b, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("liteclient: masterchain info: %w", err)
	}

	res, err := c.api.RunGetMethod(ctx, b, addr, method, args...)
	if err != nil {
		return nil, domain.ErrGetMethod.WithDetails(method).WithCause(err)
	}
	return Stack(res.AsTuple()), nil
}

// NewWalletSender opens the wallet derived from mnemonic.
// version is "v3r2" or "v4r2" (default).
func (c *LiteClient) NewWalletSender(mnemonic []string, version string) (*WalletSender, error) {
	if len(mnemonic) == 0 {
		return nil, domain.ErrWalletMissing
	}

	var cfg wallet.VersionConfig
	switch strings.ToLower(version) {
	case "v3r2", "v3":
		cfg = wallet.V3R2
	case "", "v4r2", "v4":
		cfg = wallet.V4R2
	default:
		return nil, domain.ErrInvalidArgument.WithDetails("unsupported wallet version " + version)
	}

	w, err := wallet.FromSeed(c.api, mnemonic, cfg)
	if err != nil {
		return nil, fmt.Errorf("liteclient: open wallet: %w", err)
	}
	return &WalletSender{wallet: w, wait: true}, nil
}

// Close stops all liteserver connections.
func (c *LiteClient) Close() error {
	c.pool.Stop()
	return nil
}
