// Package chaintest provides an in-memory chain.Client and chain.Sender
// for tests.
package chaintest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/core/domain"
)

// Handler answers one get-method.
type Handler func(args []any) (chain.Stack, error)

// Call records one RunGetMethod invocation.
type Call struct {
	Address string
	Method  string
	Args    []any
}

// Network is a programmable chain.Client.
type Network struct {
	mu       sync.Mutex
	block    domain.BlockShort
	blockErr error
	handlers map[string]Handler
	calls    []Call
}

// NewNetwork creates a network whose last block has seqno 1.
func NewNetwork() *Network {
	return &Network{
		block:    domain.BlockShort{Seqno: 1, Shard: "-9223372036854775808", Workchain: -1},
		handlers: make(map[string]Handler),
	}
}

func key(addr *address.Address, method string) string {
	return chain.RawAddress(addr) + "/" + method
}

// SetBlock sets the block returned by LastBlock.
func (n *Network) SetBlock(b domain.BlockShort) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.block = b
}

// FailLastBlock makes LastBlock return err.
func (n *Network) FailLastBlock(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.blockErr = err
}

// Handle registers h for method on addr.
func (n *Network) Handle(addr *address.Address, method string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[key(addr, method)] = h
}

// Return registers a fixed result for method on addr.
func (n *Network) Return(addr *address.Address, method string, stack chain.Stack) {
	n.Handle(addr, method, func([]any) (chain.Stack, error) { return stack, nil })
}

// Fail makes method on addr return err.
func (n *Network) Fail(addr *address.Address, method string, err error) {
	n.Handle(addr, method, func([]any) (chain.Stack, error) { return nil, err })
}

// Calls returns every recorded call of method.
func (n *Network) Calls(method string) []Call {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []Call
	for _, c := range n.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// LastBlock implements chain.Client.
func (n *Network) LastBlock(ctx context.Context) (*domain.BlockShort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.blockErr != nil {
		return nil, n.blockErr
	}
	b := n.block
	return &b, nil
}

// RunGetMethod implements chain.Client. Unregistered methods fail the
// way an undeployed contract does.
func (n *Network) RunGetMethod(ctx context.Context, addr *address.Address, method string, args ...any) (chain.Stack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n.mu.Lock()
	n.calls = append(n.calls, Call{Address: chain.RawAddress(addr), Method: method, Args: args})
	h, ok := n.handlers[key(addr, method)]
	n.mu.Unlock()

	if !ok {
		return nil, domain.ErrGetMethod.WithDetails(fmt.Sprintf("%s: exit code -13", method))
	}
	return h(args)
}

// Addr returns a deterministic basechain address filled with seed.
func Addr(seed byte) *address.Address {
	data := make([]byte, 32)
	for i := range data {
		data[i] = seed
	}
	return address.NewAddress(0, 0, data)
}

// AddrSlice encodes addr the way get-methods return addresses.
func AddrSlice(addr *address.Address) *cell.Slice {
	return cell.BeginCell().MustStoreAddr(addr).EndCell().BeginParse()
}

// Item describes a mock item contract. A nil Owner means not initialized.
type Item struct {
	Address *address.Address
	Owner   *address.Address
	Content string
}

// Collection describes a mock collection contract.
type Collection struct {
	Address     *address.Address
	Owner       *address.Address
	Content     *cell.Cell
	Numerator   int64
	Denominator int64
	Royalty     *address.Address
	Items       []Item
}

// Install registers the get-methods of c and its items.
func (n *Network) Install(c Collection) {
	n.Return(c.Address, "get_collection_data", chain.Stack{
		big.NewInt(int64(len(c.Items))),
		c.Content,
		AddrSlice(c.Owner),
	})
	n.Return(c.Address, "royalty_params", chain.Stack{
		big.NewInt(c.Numerator),
		big.NewInt(c.Denominator),
		AddrSlice(c.Royalty),
	})

	items := c.Items
	n.Handle(c.Address, "get_nft_address_by_index", func(args []any) (chain.Stack, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 argument, got %d", len(args))
		}
		idx, ok := args[0].(*big.Int)
		if !ok || !idx.IsInt64() || idx.Int64() < 0 || idx.Int64() >= int64(len(items)) {
			return nil, fmt.Errorf("index %v out of range", args[0])
		}
		return chain.Stack{AddrSlice(items[idx.Int64()].Address)}, nil
	})

	for i, it := range items {
		if it.Owner == nil {
			// Undeployed items have no state, so get_nft_data fails.
			continue
		}
		n.Return(it.Address, "get_nft_data", chain.Stack{
			big.NewInt(-1),
			big.NewInt(int64(i)),
			AddrSlice(c.Address),
			AddrSlice(it.Owner),
			cell.BeginCell().MustStoreStringSnake(it.Content).EndCell(),
		})
	}
}

// Sender records sent messages.
type Sender struct {
	mu   sync.Mutex
	From *address.Address
	Err  error
	Sent []*chain.Message
}

// Address implements chain.Sender.
func (s *Sender) Address() *address.Address {
	return s.From
}

// Send implements chain.Sender.
func (s *Sender) Send(ctx context.Context, msg *chain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, msg)
	return nil
}
