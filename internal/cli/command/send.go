package command

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/cli/output"
	"github.com/yndnr/nftsnap/internal/contract/nft"
	"github.com/yndnr/nftsnap/internal/core/domain"
)

// DefaultSendValue is attached to collection messages when --value is
// not given.
const DefaultSendValue = "0.05"

func valueFlag() cli.Flag {
	return &cli.StringFlag{Name: "value", Value: DefaultSendValue, Usage: "TON attached to the message"}
}

func queryIDFlag() cli.Flag {
	return &cli.Uint64Flag{Name: "query-id", Usage: "Query id echoed in responses"}
}

// MintCommand returns the mint command.
func MintCommand() *cli.Command {
	return &cli.Command{
		Name:  "mint",
		Usage: "Deploy a new item through the collection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "Owner of the new item"},
			&cli.Uint64Flag{Name: "index", Usage: "Item index"},
			&cli.StringFlag{Name: "content", Usage: "Item content, appended to the collection item base"},
			&cli.StringFlag{Name: "amount", Value: "0.05", Usage: "TON forwarded to the item contract"},
			&cli.StringFlag{Name: "batch", Usage: "YAML file with a list of {index, owner, content, amount}; sends one batch mint"},
			valueFlag(),
			queryIDFlag(),
		},
		Action: mintAction,
	}
}

// TransferCommand returns the transfer command.
func TransferCommand() *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Transfer an item owned by the wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "item", Usage: "Item address"},
			&cli.StringFlag{Name: "to", Usage: "New owner", Required: true},
			&cli.StringFlag{Name: "response-to", Usage: "Address receiving excess funds"},
			&cli.StringFlag{Name: "forward-amount", Value: "0", Usage: "TON forwarded to the new owner"},
			&cli.StringFlag{Name: "amount", Value: "0.05", Usage: "TON attached to the transfer"},
		},
		Action: transferAction,
	}
}

// ChangeOwnerCommand returns the change-owner command.
func ChangeOwnerCommand() *cli.Command {
	return &cli.Command{
		Name:  "change-owner",
		Usage: "Hand the collection over to a new owner",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "new-owner", Usage: "New collection owner", Required: true},
			valueFlag(),
			queryIDFlag(),
		},
		Action: changeOwnerAction,
	}
}

// ChangePriceCommand returns the change-price command.
func ChangePriceCommand() *cli.Command {
	return &cli.Command{
		Name:  "change-price",
		Usage: "Update the mint price and the number of items per paid mint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "price", Usage: "Price per item in TON", Required: true},
			&cli.UintFlag{Name: "count", Usage: "Items per paid mint", Required: true},
			valueFlag(),
		},
		Action: changePriceAction,
	}
}

// ChangeContentCommand returns the change-content command.
func ChangeContentCommand() *cli.Command {
	return &cli.Command{
		Name:  "change-content",
		Usage: "Replace the collection content and royalty params",
		Flags: append(contentFlags(), valueFlag(), queryIDFlag()),
		Action: changeContentAction,
	}
}

// DeployCommand returns the deploy command.
func DeployCommand() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Deploy a new collection owned by the wallet",
		Flags: append(contentFlags(),
			&cli.StringFlag{Name: "code", Usage: "Collection code BOC file (binary or hex)", Required: true},
			&cli.StringFlag{Name: "item-code", Usage: "Item code BOC file (binary or hex)", Required: true},
			&cli.StringFlag{Name: "price", Value: "0", Usage: "Price per item in TON"},
			&cli.UintFlag{Name: "per-mint", Value: 10, Usage: "Items per paid mint"},
			&cli.IntFlag{Name: "workchain", Usage: "Workchain of the collection"},
			valueFlag(),
		),
		Action: deployAction,
	}
}

func contentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "collection-uri", Usage: "Off-chain collection metadata URI", Required: true},
		&cli.StringFlag{Name: "item-base", Usage: "Prefix of individual item content"},
		&cli.StringFlag{Name: "royalty", Value: "5/100", Usage: "Royalty as numerator/denominator"},
		&cli.StringFlag{Name: "royalty-to", Usage: "Royalty destination (defaults to the wallet)"},
	}
}

// sentMessage is printed after a message has been submitted.
type sentMessage struct {
	Op    string `json:"op"`
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

// send runs fn with the configured wallet behind a spinner.
func send(c *cli.Context, op string, to *address.Address, value tlb.Coins, fn func(ctx context.Context, via chain.Sender) error) error {
	env := envFrom(c)
	via, err := env.Sender(c.Context)
	if err != nil {
		return err
	}

	spin := output.NewSpinner(env.Err, fmt.Sprintf("sending %s to %s", op, chain.FormatAddress(to)))
	spin.Start()
	if err := fn(c.Context, via); err != nil {
		spin.Fail(op + " failed")
		return err
	}
	spin.Success(op + " sent")

	env.Logger.Info("message sent", "op", op, "to", chain.FormatAddress(to), "value", value.String())
	return env.Print(&sentMessage{
		Op:    op,
		From:  chain.FormatAddress(via.Address()),
		To:    chain.FormatAddress(to),
		Value: value.String(),
	})
}

func parseTON(flag, s string) (tlb.Coins, error) {
	v, err := tlb.FromTON(strings.TrimSpace(s))
	if err != nil {
		return tlb.Coins{}, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("--%s %q", flag, s)).WithCause(err)
	}
	return v, nil
}

func parseAddressFlag(c *cli.Context, flag string) (*address.Address, error) {
	s := c.String(flag)
	if s == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("--" + flag + " is required")
	}
	return chain.ParseAddress(s)
}

// mintEntry is one item of a batch file.
type mintEntry struct {
	Index   uint64 `yaml:"index"`
	Owner   string `yaml:"owner"`
	Content string `yaml:"content"`
	Amount  string `yaml:"amount"`
}

func loadBatch(path string) ([]nft.MintItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails("batch file").WithCause(err)
	}
	var entries []mintEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails("batch file " + path).WithCause(err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("batch file " + path + " is empty")
	}

	items := make([]nft.MintItem, 0, len(entries))
	for i, e := range entries {
		owner, err := chain.ParseAddress(e.Owner)
		if err != nil {
			return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("batch entry %d", i)).WithCause(err)
		}
		amount := e.Amount
		if amount == "" {
			amount = "0.05"
		}
		coins, err := parseTON("batch amount", amount)
		if err != nil {
			return nil, err
		}
		items = append(items, nft.MintItem{Index: e.Index, Owner: owner, Content: e.Content, Amount: coins})
	}
	return items, nil
}

func mintAction(c *cli.Context) error {
	coll, err := openCollection(c)
	if err != nil {
		return err
	}
	value, err := parseTON("value", c.String("value"))
	if err != nil {
		return err
	}
	queryID := c.Uint64("query-id")

	if path := c.String("batch"); path != "" {
		items, err := loadBatch(path)
		if err != nil {
			return err
		}
		return send(c, "batch-mint", coll.Address(), value, func(ctx context.Context, via chain.Sender) error {
			return coll.SendBatchMint(ctx, via, value, queryID, items)
		})
	}

	owner, err := parseAddressFlag(c, "to")
	if err != nil {
		return err
	}
	if !c.IsSet("index") {
		return domain.ErrInvalidArgument.WithDetails("--index is required")
	}
	amount, err := parseTON("amount", c.String("amount"))
	if err != nil {
		return err
	}

	item := nft.MintItem{
		Index:   c.Uint64("index"),
		Owner:   owner,
		Content: c.String("content"),
		Amount:  amount,
	}
	return send(c, "mint", coll.Address(), value, func(ctx context.Context, via chain.Sender) error {
		return coll.SendMint(ctx, via, value, queryID, item)
	})
}

func transferAction(c *cli.Context) error {
	itemAddr, err := parseAddressFlag(c, "item")
	if err != nil {
		return err
	}
	to, err := parseAddressFlag(c, "to")
	if err != nil {
		return err
	}

	var responseTo *address.Address
	if c.String("response-to") != "" {
		if responseTo, err = parseAddressFlag(c, "response-to"); err != nil {
			return err
		}
	}
	forward, err := parseTON("forward-amount", c.String("forward-amount"))
	if err != nil {
		return err
	}
	value, err := parseTON("amount", c.String("amount"))
	if err != nil {
		return err
	}

	client, err := envFrom(c).Client(c.Context)
	if err != nil {
		return err
	}
	item := nft.NewItem(client, itemAddr)

	return send(c, "transfer", itemAddr, value, func(ctx context.Context, via chain.Sender) error {
		return item.SendTransfer(ctx, via, nft.TransferParams{
			Value:         &value,
			To:            to,
			ResponseTo:    responseTo,
			ForwardAmount: forward,
		})
	})
}

func changeOwnerAction(c *cli.Context) error {
	coll, err := openCollection(c)
	if err != nil {
		return err
	}
	newOwner, err := parseAddressFlag(c, "new-owner")
	if err != nil {
		return err
	}
	value, err := parseTON("value", c.String("value"))
	if err != nil {
		return err
	}
	queryID := c.Uint64("query-id")

	return send(c, "change-owner", coll.Address(), value, func(ctx context.Context, via chain.Sender) error {
		return coll.SendChangeOwner(ctx, via, value, queryID, newOwner)
	})
}

func changePriceAction(c *cli.Context) error {
	coll, err := openCollection(c)
	if err != nil {
		return err
	}
	price, err := parseTON("price", c.String("price"))
	if err != nil {
		return err
	}
	value, err := parseTON("value", c.String("value"))
	if err != nil {
		return err
	}
	count := uint32(c.Uint("count"))

	return send(c, "change-price", coll.Address(), value, func(ctx context.Context, via chain.Sender) error {
		return coll.SendChangePrice(ctx, via, value, price, count)
	})
}

// parseRoyalty parses "num/den" and resolves the destination, defaulting
// to fallback.
func parseRoyalty(c *cli.Context, fallback *address.Address) (nft.RoyaltyParams, error) {
	num, den, ok := strings.Cut(c.String("royalty"), "/")
	n, errN := strconv.ParseUint(strings.TrimSpace(num), 10, 16)
	d, errD := strconv.ParseUint(strings.TrimSpace(den), 10, 16)
	if !ok || errN != nil || errD != nil || d == 0 || n > d {
		return nft.RoyaltyParams{}, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("--royalty %q, want numerator/denominator", c.String("royalty")))
	}

	dest := fallback
	if c.String("royalty-to") != "" {
		var err error
		if dest, err = parseAddressFlag(c, "royalty-to"); err != nil {
			return nft.RoyaltyParams{}, err
		}
	}
	return nft.RoyaltyParams{Numerator: uint16(n), Denominator: uint16(d), Destination: dest}, nil
}

func changeContentAction(c *cli.Context) error {
	coll, err := openCollection(c)
	if err != nil {
		return err
	}
	via, err := envFrom(c).Sender(c.Context)
	if err != nil {
		return err
	}
	royalty, err := parseRoyalty(c, via.Address())
	if err != nil {
		return err
	}
	value, err := parseTON("value", c.String("value"))
	if err != nil {
		return err
	}
	queryID := c.Uint64("query-id")
	content := nft.CollectionContent(c.String("collection-uri"), c.String("item-base"))

	return send(c, "change-content", coll.Address(), value, func(ctx context.Context, via chain.Sender) error {
		return coll.SendChangeContent(ctx, via, value, queryID, content, royalty)
	})
}

// loadBOC reads a bag of cells stored either raw or hex encoded.
func loadBOC(path string) (*cell.Cell, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails(path).WithCause(err)
	}
	if decoded, err := hex.DecodeString(strings.TrimSpace(string(raw))); err == nil {
		raw = decoded
	}
	c, err := cell.FromBOC(raw)
	if err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails(path + " is not a BOC").WithCause(err)
	}
	return c, nil
}

func deployAction(c *cli.Context) error {
	env := envFrom(c)
	code, err := loadBOC(c.String("code"))
	if err != nil {
		return err
	}
	itemCode, err := loadBOC(c.String("item-code"))
	if err != nil {
		return err
	}
	price, err := parseTON("price", c.String("price"))
	if err != nil {
		return err
	}
	value, err := parseTON("value", c.String("value"))
	if err != nil {
		return err
	}

	client, err := env.Client(c.Context)
	if err != nil {
		return err
	}
	via, err := env.Sender(c.Context)
	if err != nil {
		return err
	}
	royalty, err := parseRoyalty(c, via.Address())
	if err != nil {
		return err
	}

	cfg := nft.DefaultCollectionConfig(via.Address(), itemCode)
	cfg.CollectionURI = c.String("collection-uri")
	cfg.ItemContentBase = c.String("item-base")
	cfg.Royalty = royalty
	cfg.Price = price
	cfg.PerMint = uint32(c.Uint("per-mint"))

	coll, err := nft.NewCollectionFromConfig(client, cfg, code, int8(c.Int("workchain")))
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}

	return send(c, "deploy", coll.Address(), value, func(ctx context.Context, via chain.Sender) error {
		return coll.SendDeploy(ctx, via, value)
	})
}
