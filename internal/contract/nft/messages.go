package nft

import (
	"fmt"
	"sort"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// MintItem describes one item to deploy through the collection.
type MintItem struct {
	Index   uint64
	Owner   *address.Address
	Content string    // individual item content, appended to the collection base
	Amount  tlb.Coins // value forwarded to the new item contract
}

// itemContent is the init message for a freshly deployed item:
// owner address followed by a ref to its content string.
func (m MintItem) itemContent() *cell.Cell {
	return cell.BeginCell().
		MustStoreAddr(m.Owner).
		MustStoreRef(snakeString(m.Content)).
		EndCell()
}

// MintBody builds the body of a single mint message.
func MintBody(queryID uint64, item MintItem) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(OpMint, 32).
		MustStoreUInt(queryID, 64).
		MustStoreUInt(item.Index, 64).
		MustStoreBigCoins(item.Amount.Nano()).
		MustStoreRef(item.itemContent()).
		EndCell()
}

// BatchMintBody builds the body of a batch mint message. Items are keyed
// by index in a 64-bit dictionary.
func BatchMintBody(queryID uint64, items []MintItem) (*cell.Cell, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("batch mint: no items")
	}

	sorted := make([]MintItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	dict := cell.NewDict(64)
	for i, item := range sorted {
		if i > 0 && sorted[i-1].Index == item.Index {
			return nil, fmt.Errorf("batch mint: duplicate index %d", item.Index)
		}
		value := cell.BeginCell().
			MustStoreBigCoins(item.Amount.Nano()).
			MustStoreRef(item.itemContent()).
			EndCell()
		key := cell.BeginCell().MustStoreUInt(item.Index, 64).EndCell()
		if err := dict.Set(key, value); err != nil {
			return nil, fmt.Errorf("batch mint: index %d: %w", item.Index, err)
		}
	}

	return cell.BeginCell().
		MustStoreUInt(OpBatchMint, 32).
		MustStoreUInt(queryID, 64).
		MustStoreDict(dict).
		EndCell(), nil
}

// ChangeOwnerBody builds the body transferring collection ownership.
func ChangeOwnerBody(queryID uint64, newOwner *address.Address) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(OpChangeOwner, 32).
		MustStoreUInt(queryID, 64).
		MustStoreAddr(newOwner).
		EndCell()
}

// ChangeContentBody builds the body replacing collection content and
// royalty parameters.
func ChangeContentBody(queryID uint64, content *cell.Cell, royalty RoyaltyParams) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(OpChangeContent, 32).
		MustStoreUInt(queryID, 64).
		MustStoreRef(content).
		MustStoreRef(royalty.ToCell()).
		EndCell()
}

// ChangePriceBody builds the body updating the sale price and the number
// of items a single mint may buy.
func ChangePriceBody(price tlb.Coins, count uint32) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(OpChangePrice, 32).
		MustStoreUInt(0, 64).
		MustStoreBigCoins(price.Nano()).
		MustStoreUInt(uint64(count), 32).
		EndCell()
}

// TransferBody builds an item transfer body. A nil responseTo is encoded
// as addr_none and a nil forwardBody as an absent ref.
func TransferBody(to, responseTo *address.Address, forwardAmount tlb.Coins, forwardBody *cell.Cell) *cell.Cell {
	b := cell.BeginCell().
		MustStoreUInt(OpTransfer, 32).
		MustStoreUInt(0, 64).
		MustStoreAddr(to)

	if responseTo == nil {
		b.MustStoreUInt(0, 2)
	} else {
		b.MustStoreAddr(responseTo)
	}

	return b.
		MustStoreBoolBit(false).
		MustStoreBigCoins(forwardAmount.Nano()).
		MustStoreMaybeRef(forwardBody).
		EndCell()
}
