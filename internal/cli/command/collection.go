package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/contract/nft"
	"github.com/yndnr/nftsnap/internal/core/domain"
)

// CollectionCommand returns the collection command group.
func CollectionCommand() *cli.Command {
	return &cli.Command{
		Name:  "collection",
		Usage: "Read collection state",
		Subcommands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "Show collection data and royalty params",
				Action: collectionInfo,
			},
			{
				Name:   "royalty",
				Usage:  "Show royalty params",
				Action: collectionRoyalty,
			},
			{
				Name:  "address",
				Usage: "Derive the address of the item with the given index",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "index", Aliases: []string{"i"}, Usage: "Item index", Required: true},
				},
				Action: collectionAddress,
			},
		},
	}
}

// openCollection returns a handle to the configured collection.
func openCollection(c *cli.Context) (*nft.Collection, error) {
	env := envFrom(c)
	addr, err := env.Collection()
	if err != nil {
		return nil, err
	}
	client, err := env.Client(c.Context)
	if err != nil {
		return nil, err
	}
	return nft.NewCollection(client, addr), nil
}

func collectionInfo(c *cli.Context) error {
	coll, err := openCollection(c)
	if err != nil {
		return err
	}

	data, err := coll.GetCollectionData(c.Context)
	if err != nil {
		return domain.ErrCollectionRead.WithDetails(nft.MethodGetCollectionData).WithCause(err)
	}
	royalty, err := coll.GetRoyaltyParams(c.Context)
	if err != nil {
		return domain.ErrCollectionRead.WithDetails(nft.MethodRoyaltyParams).WithCause(err)
	}

	return envFrom(c).Print(&domain.NFTCollectionInfo{
		Address:   chain.FormatAddress(coll.Address()),
		ItemCount: data.NextItemIndex,
		Content:   nft.DecodeContent(data.Content),
		Owner:     chain.FormatAddress(data.Owner),
		Royalty:   royaltyInfo(royalty),
	})
}

func collectionRoyalty(c *cli.Context) error {
	coll, err := openCollection(c)
	if err != nil {
		return err
	}
	royalty, err := coll.GetRoyaltyParams(c.Context)
	if err != nil {
		return domain.ErrCollectionRead.WithDetails(nft.MethodRoyaltyParams).WithCause(err)
	}
	return envFrom(c).Print(royaltyInfo(royalty))
}

func royaltyInfo(r *nft.RoyaltyParams) domain.Royalty {
	return domain.Royalty{
		Numerator:   int(r.Numerator),
		Denominator: int(r.Denominator),
		Destination: chain.FormatAddress(r.Destination),
	}
}

// itemAddress is the output of collection address.
type itemAddress struct {
	Index   int64  `json:"index"`
	Address string `json:"address"`
}

func collectionAddress(c *cli.Context) error {
	index := c.Int64("index")
	if index < 0 {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("index %d is negative", index))
	}

	coll, err := openCollection(c)
	if err != nil {
		return err
	}
	addr, err := coll.GetAddress(c.Context, index)
	if err != nil {
		return domain.ErrItemAddress.WithDetails(fmt.Sprintf("index %d", index)).WithCause(err)
	}
	return envFrom(c).Print(&itemAddress{Index: index, Address: chain.FormatAddress(addr)})
}
