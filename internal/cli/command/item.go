package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/contract/nft"
	"github.com/yndnr/nftsnap/internal/core/domain"
)

// ItemCommand returns the item command group.
func ItemCommand() *cli.Command {
	return &cli.Command{
		Name:  "item",
		Usage: "Read item state",
		Subcommands: []*cli.Command{
			{
				Name:      "data",
				Usage:     "Show get_nft_data of an item",
				ArgsUsage: "ADDRESS",
				Action:    itemData,
			},
		},
	}
}

// itemView is the printable form of nft.ItemData.
type itemView struct {
	Address    string `json:"address"`
	Init       bool   `json:"init"`
	Index      string `json:"index"`
	Collection string `json:"collection"`
	Owner      string `json:"owner"`
	Content    string `json:"content"`
}

func itemData(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrInvalidArgument.WithDetails("item data takes exactly one address")
	}
	addr, err := chain.ParseAddress(c.Args().First())
	if err != nil {
		return err
	}

	env := envFrom(c)
	client, err := env.Client(c.Context)
	if err != nil {
		return err
	}

	data, err := nft.NewItem(client, addr).ReadData(c.Context)
	if err != nil {
		return domain.ErrGetMethod.WithDetails(nft.MethodGetNFTData).WithCause(err)
	}

	return env.Print(&itemView{
		Address:    chain.FormatAddress(addr),
		Init:       data.Init,
		Index:      data.Index.String(),
		Collection: chain.FormatAddress(data.Collection),
		Owner:      chain.FormatAddress(data.Owner),
		Content:    data.Content,
	})
}
