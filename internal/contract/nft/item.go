package nft

import (
	"context"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/core/domain"
)

// DefaultTransferValue is attached to transfers when no value is given.
var DefaultTransferValue = tlb.MustFromTON("0.05")

// ItemData is the result of get_nft_data.
type ItemData struct {
	Init       bool
	Index      *big.Int
	Collection *address.Address
	Owner      *address.Address
	Content    string
}

// EmptyItemData is the placeholder for an item whose data cannot be read.
func EmptyItemData() *ItemData {
	return &ItemData{
		Index:      big.NewInt(0),
		Collection: chain.ZeroAddress(),
		Owner:      chain.ZeroAddress(),
	}
}

// Item is a handle to one NFT item contract.
type Item struct {
	addr   *address.Address
	client chain.Client
}

// NewItem opens the item at addr.
func NewItem(client chain.Client, addr *address.Address) *Item {
	return &Item{addr: addr, client: client}
}

// Address returns the item contract address.
func (i *Item) Address() *address.Address {
	return i.addr
}

// ReadData reads get_nft_data and reports any failure.
func (i *Item) ReadData(ctx context.Context) (*ItemData, error) {
	stack, err := i.client.RunGetMethod(ctx, i.addr, MethodGetNFTData)
	if err != nil {
		return nil, err
	}

	init, err := stack.Int(0)
	if err != nil {
		return nil, err
	}
	index, err := stack.Int(1)
	if err != nil {
		return nil, err
	}
	collection, err := stack.Address(2)
	if err != nil {
		return nil, err
	}
	owner, err := stack.Address(3)
	if err != nil {
		return nil, err
	}
	contentSlice, err := stack.Slice(4)
	if err != nil {
		return nil, err
	}
	content, err := contentSlice.LoadStringSnake()
	if err != nil {
		return nil, domain.ErrMalformedStack.WithDetails("index 4: content").WithCause(err)
	}

	return &ItemData{
		Init:       init.Cmp(big.NewInt(-1)) == 0,
		Index:      index,
		Collection: collection,
		Owner:      owner,
		Content:    content,
	}, nil
}

// GetData reads get_nft_data. An item that is not deployed or returns a
// malformed stack is reported as not initialized.
func (i *Item) GetData(ctx context.Context) *ItemData {
	data, err := i.ReadData(ctx)
	if err != nil {
		return EmptyItemData()
	}
	return data
}

// GetOwner returns the current owner, or the zero address.
func (i *Item) GetOwner(ctx context.Context) *address.Address {
	return i.GetData(ctx).Owner
}

// TransferParams configures an item transfer.
type TransferParams struct {
	Value         *tlb.Coins // defaults to DefaultTransferValue
	To            *address.Address
	ResponseTo    *address.Address
	ForwardAmount tlb.Coins
	ForwardBody   *cell.Cell
}

// SendTransfer moves the item to params.To.
func (i *Item) SendTransfer(ctx context.Context, via chain.Sender, params TransferParams) error {
	if params.To == nil {
		return domain.ErrInvalidArgument.WithDetails("transfer: destination is required")
	}

	value := DefaultTransferValue
	if params.Value != nil {
		value = *params.Value
	}

	return via.Send(ctx, &chain.Message{
		To:     i.addr,
		Amount: value,
		Body:   TransferBody(params.To, params.ResponseTo, params.ForwardAmount, params.ForwardBody),
		Bounce: true,
	})
}
