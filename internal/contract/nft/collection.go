package nft

import (
	"context"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/core/domain"
)

// CollectionData is the result of get_collection_data.
type CollectionData struct {
	NextItemIndex int64
	Content       *cell.Cell
	Owner         *address.Address
}

// RoyaltyParams is the result of royalty_params.
type RoyaltyParams struct {
	Numerator   uint16
	Denominator uint16
	Destination *address.Address
}

// ToCell encodes the royalty parameters as stored in collection data.
func (r RoyaltyParams) ToCell() *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(uint64(r.Numerator), 16).
		MustStoreUInt(uint64(r.Denominator), 16).
		MustStoreAddr(r.Destination).
		EndCell()
}

// Collection is a handle to one NFT collection contract.
type Collection struct {
	addr   *address.Address
	client chain.Client
	init   *tlb.StateInit
}

// NewCollection opens the collection deployed at addr.
func NewCollection(client chain.Client, addr *address.Address) *Collection {
	return &Collection{addr: addr, client: client}
}

// NewCollectionFromConfig prepares a not yet deployed collection. Its
// address is derived from the code and initial data.
func NewCollectionFromConfig(client chain.Client, cfg CollectionConfig, code *cell.Cell, workchain int8) (*Collection, error) {
	data, err := CollectionDataCell(cfg)
	if err != nil {
		return nil, err
	}
	init := &tlb.StateInit{Code: code, Data: data}
	addr, err := stateInitAddress(init, workchain)
	if err != nil {
		return nil, err
	}
	return &Collection{addr: addr, client: client, init: init}, nil
}

// Address returns the collection contract address.
func (c *Collection) Address() *address.Address {
	return c.addr
}

// StateInit returns the deploy state, or nil for an opened collection.
func (c *Collection) StateInit() *tlb.StateInit {
	return c.init
}

// GetCollectionData reads the next item index, content and owner.
func (c *Collection) GetCollectionData(ctx context.Context) (*CollectionData, error) {
	stack, err := c.client.RunGetMethod(ctx, c.addr, MethodGetCollectionData)
	if err != nil {
		return nil, err
	}

	next, err := stack.Int(0)
	if err != nil {
		return nil, err
	}
	if !next.IsInt64() || next.Sign() < 0 {
		return nil, domain.ErrMalformedStack.WithDetails(fmt.Sprintf("next item index %s out of range", next))
	}
	content, err := stack.Cell(1)
	if err != nil {
		return nil, err
	}
	owner, err := stack.Address(2)
	if err != nil {
		return nil, err
	}

	return &CollectionData{
		NextItemIndex: next.Int64(),
		Content:       content,
		Owner:         owner,
	}, nil
}

// GetRoyaltyParams reads the royalty fraction and payee.
func (c *Collection) GetRoyaltyParams(ctx context.Context) (*RoyaltyParams, error) {
	stack, err := c.client.RunGetMethod(ctx, c.addr, MethodRoyaltyParams)
	if err != nil {
		return nil, err
	}

	num, err := uint16At(stack, 0)
	if err != nil {
		return nil, err
	}
	den, err := uint16At(stack, 1)
	if err != nil {
		return nil, err
	}
	dest, err := stack.Address(2)
	if err != nil {
		return nil, err
	}

	return &RoyaltyParams{Numerator: num, Denominator: den, Destination: dest}, nil
}

// GetAddress derives the address of the item at index.
func (c *Collection) GetAddress(ctx context.Context, index int64) (*address.Address, error) {
	stack, err := c.client.RunGetMethod(ctx, c.addr, MethodGetNFTAddressByIndex, big.NewInt(index))
	if err != nil {
		return nil, err
	}
	return stack.Address(0)
}

// Item opens a handle to the item at addr using the collection's client.
func (c *Collection) Item(addr *address.Address) *Item {
	return NewItem(c.client, addr)
}

// SendDeploy deploys the collection with an empty body. The collection
// must have been created with NewCollectionFromConfig.
func (c *Collection) SendDeploy(ctx context.Context, via chain.Sender, value tlb.Coins) error {
	if c.init == nil {
		return domain.ErrInvalidArgument.WithDetails("collection has no state init")
	}
	return via.Send(ctx, &chain.Message{
		To:        c.addr,
		Amount:    value,
		Body:      cell.BeginCell().EndCell(),
		StateInit: c.init,
	})
}

// SendMint deploys a single item.
func (c *Collection) SendMint(ctx context.Context, via chain.Sender, value tlb.Coins, queryID uint64, item MintItem) error {
	if item.Owner == nil {
		return domain.ErrInvalidArgument.WithDetails("mint: owner is required")
	}
	return c.send(ctx, via, value, MintBody(queryID, item))
}

// SendBatchMint deploys several items in one message.
func (c *Collection) SendBatchMint(ctx context.Context, via chain.Sender, value tlb.Coins, queryID uint64, items []MintItem) error {
	body, err := BatchMintBody(queryID, items)
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}
	return c.send(ctx, via, value, body)
}

// SendChangeOwner transfers collection ownership to newOwner.
func (c *Collection) SendChangeOwner(ctx context.Context, via chain.Sender, value tlb.Coins, queryID uint64, newOwner *address.Address) error {
	if newOwner == nil {
		return domain.ErrInvalidArgument.WithDetails("change owner: new owner is required")
	}
	return c.send(ctx, via, value, ChangeOwnerBody(queryID, newOwner))
}

// SendChangeContent replaces the collection content and royalty params.
func (c *Collection) SendChangeContent(ctx context.Context, via chain.Sender, value tlb.Coins, queryID uint64, content *cell.Cell, royalty RoyaltyParams) error {
	if content == nil {
		return domain.ErrInvalidArgument.WithDetails("change content: content is required")
	}
	return c.send(ctx, via, value, ChangeContentBody(queryID, content, royalty))
}

// SendChangePrice updates the mint price and per-mint count.
func (c *Collection) SendChangePrice(ctx context.Context, via chain.Sender, value, price tlb.Coins, count uint32) error {
	return c.send(ctx, via, value, ChangePriceBody(price, count))
}

func (c *Collection) send(ctx context.Context, via chain.Sender, value tlb.Coins, body *cell.Cell) error {
	return via.Send(ctx, &chain.Message{
		To:     c.addr,
		Amount: value,
		Body:   body,
		Bounce: true,
	})
}

func uint16At(stack chain.Stack, i int) (uint16, error) {
	n, err := stack.Int(i)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() || n.Uint64() > 0xFFFF {
		return 0, domain.ErrMalformedStack.WithDetails(fmt.Sprintf("index %d: %s does not fit uint16", i, n))
	}
	return uint16(n.Uint64()), nil
}
