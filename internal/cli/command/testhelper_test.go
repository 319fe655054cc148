package command

import (
	"bytes"
	"context"
	"testing"

	"github.com/xssnick/tonutils-go/address"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/chain/chaintest"
	"github.com/yndnr/nftsnap/internal/cli/config"
	"github.com/yndnr/nftsnap/internal/contract/nft"
)

var (
	ownerA = chaintest.Addr(0xA0)
	ownerB = chaintest.Addr(0xB0)
	admin  = chaintest.Addr(0xAD)
	wallet = chaintest.Addr(0xEE)
)

// threeItems is a collection whose items 0 and 2 are owned by A and B.
func threeItems() chaintest.Collection {
	return chaintest.Collection{
		Address:     chaintest.Addr(0xC0),
		Owner:       admin,
		Content:     nft.OffChainContent("https://example.com/collection.json"),
		Numerator:   5,
		Denominator: 100,
		Royalty:     admin,
		Items: []chaintest.Item{
			{Address: chaintest.Addr(0x10), Owner: ownerA, Content: "0.json"},
			{Address: chaintest.Addr(0x11)},
			{Address: chaintest.Addr(0x12), Owner: ownerB, Content: "2.json"},
		},
	}
}

// harness runs the CLI against an in-memory network.
type harness struct {
	t          *testing.T
	net        *chaintest.Network
	sender     *chaintest.Sender
	collection chaintest.Collection
	dir        string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	// Keep the user's config file and environment out of the tests.
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"NFT_COLLECTION", "TONCENTER_ENDPOINT", "TONCENTER_KEY", "NFTSNAP_CONFIG", "NFTSNAP_WALLET_MNEMONIC"} {
		t.Setenv(name, "")
	}

	h := &harness{
		t:          t,
		net:        chaintest.NewNetwork(),
		sender:     &chaintest.Sender{From: wallet},
		collection: threeItems(),
		dir:        t.TempDir(),
	}
	h.net.Install(h.collection)
	return h
}

func (h *harness) collectionAddr() string {
	return chain.FormatAddress(h.collection.Address)
}

// run executes the CLI with args and returns its stdout and stderr.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()

	var stdout, stderr bytes.Buffer
	app := App(
		WithOutput(&stdout, &stderr),
		WithClientFactory(func(context.Context, *config.Config) (chain.Client, error) {
			return h.net, nil
		}),
		WithSenderFactory(func(context.Context, *config.Config, chain.Client) (chain.Sender, error) {
			return h.sender, nil
		}),
	)
	err := app.RunContext(context.Background(), append([]string{"nftsnap"}, args...))
	return stdout.String(), stderr.String(), err
}

// withWallet configures a mnemonic for the sending commands.
func (h *harness) withWallet() {
	h.t.Setenv("NFTSNAP_WALLET_MNEMONIC", "word1 word2 word3")
}

func mustFormat(addr *address.Address) string {
	return chain.FormatAddress(addr)
}
