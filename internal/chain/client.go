package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

// Client runs read-only queries against the network.
type Client interface {
	// LastBlock returns the latest masterchain block.
	LastBlock(ctx context.Context) (*domain.BlockShort, error)

	// RunGetMethod executes a get-method on the contract at addr.
	// Supported argument types are *big.Int, int64, uint64, *cell.Cell
	// and *cell.Slice.
	RunGetMethod(ctx context.Context, addr *address.Address, method string, args ...any) (Stack, error)
}

// Sender delivers internal messages from a wallet.
type Sender interface {
	// Address returns the wallet address messages are sent from.
	Address() *address.Address

	// Send signs and submits msg.
	Send(ctx context.Context, msg *Message) error
}

// Message is an internal message to a contract.
type Message struct {
	To        *address.Address
	Amount    tlb.Coins
	Body      *cell.Cell
	StateInit *tlb.StateInit
	Bounce    bool
}

// ParseAddress parses a user-friendly or raw ("wc:hex") address.
func ParseAddress(s string) (*address.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, domain.ErrInvalidAddress.WithDetails("empty address")
	}

	var (
		addr *address.Address
		err  error
	)
	if strings.Contains(s, ":") {
		addr, err = address.ParseRawAddr(s)
	} else {
		addr, err = address.ParseAddr(s)
	}
	if err != nil {
		return nil, domain.ErrInvalidAddress.WithDetails(s).WithCause(err)
	}
	return addr, nil
}

// FormatAddress renders addr in the bounceable, mainnet, URL-safe form
// used for snapshot keys.
func FormatAddress(addr *address.Address) string {
	if addr == nil {
		return ""
	}
	c := addr.Copy()
	c.SetBounce(true)
	c.SetTestnetOnly(false)
	return c.String()
}

// RawAddress renders addr as "wc:hex" with lowercase hex.
func RawAddress(addr *address.Address) string {
	if addr == nil {
		return ""
	}
	return fmt.Sprintf("%d:%x", addr.Workchain(), addr.Data())
}

// ZeroAddress returns the all-zero basechain address 0:000...0.
func ZeroAddress() *address.Address {
	return address.NewAddress(0, 0, make([]byte, 32))
}
