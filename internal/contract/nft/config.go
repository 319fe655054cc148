package nft

import (
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// CollectionConfig holds the initial state of a new collection.
type CollectionConfig struct {
	Admin           *address.Address
	ItemCode        *cell.Cell
	CollectionURI   string // off-chain collection metadata
	ItemContentBase string // prefix for individual item content
	Royalty         RoyaltyParams
	Price           tlb.Coins // sale price per item
	PerMint         uint32    // max items per paid mint
}

// DefaultCollectionConfig returns a config with a 5% royalty paid to admin
// and free mints of up to 10 items.
func DefaultCollectionConfig(admin *address.Address, itemCode *cell.Cell) CollectionConfig {
	return CollectionConfig{
		Admin:    admin,
		ItemCode: itemCode,
		Royalty: RoyaltyParams{
			Numerator:   5,
			Denominator: 100,
			Destination: admin,
		},
		Price:   tlb.ZeroCoins,
		PerMint: 10,
	}
}

// CollectionDataCell builds the initial data cell of a collection.
func CollectionDataCell(cfg CollectionConfig) (*cell.Cell, error) {
	if cfg.Admin == nil {
		return nil, fmt.Errorf("collection config: admin address is required")
	}
	if cfg.ItemCode == nil {
		return nil, fmt.Errorf("collection config: item code is required")
	}

	royalty := cfg.Royalty
	if royalty.Destination == nil {
		royalty.Destination = cfg.Admin
	}

	sale := cell.BeginCell().
		MustStoreBigCoins(cfg.Price.Nano()).
		MustStoreUInt(uint64(cfg.PerMint), 32).
		EndCell()

	return cell.BeginCell().
		MustStoreAddr(cfg.Admin).
		MustStoreUInt(0, 64).
		MustStoreRef(CollectionContent(cfg.CollectionURI, cfg.ItemContentBase)).
		MustStoreRef(cfg.ItemCode).
		MustStoreRef(royalty.ToCell()).
		MustStoreRef(sale).
		EndCell(), nil
}

// CollectionContent is the content cell of a collection: a ref to the
// off-chain collection metadata followed by a ref to the item base.
func CollectionContent(collectionURI, itemBase string) *cell.Cell {
	return cell.BeginCell().
		MustStoreRef(OffChainContent(collectionURI)).
		MustStoreRef(snakeString(itemBase)).
		EndCell()
}

// CollectionAddress derives the address of a contract from its code and
// initial data.
func CollectionAddress(code, data *cell.Cell, workchain int8) (*address.Address, error) {
	return stateInitAddress(&tlb.StateInit{Code: code, Data: data}, workchain)
}

func stateInitAddress(init *tlb.StateInit, workchain int8) (*address.Address, error) {
	c, err := tlb.ToCell(init)
	if err != nil {
		return nil, fmt.Errorf("state init: %w", err)
	}
	return address.NewAddress(0, byte(workchain), c.Hash()), nil
}
