package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nftsnap/internal/chain"
	"github.com/yndnr/nftsnap/internal/core/domain"
)

// CheckpointCommand returns the checkpoint command group.
func CheckpointCommand() *cli.Command {
	dirFlag := &cli.StringFlag{Name: "checkpoint-dir", Usage: "Checkpoint store directory"}
	return &cli.Command{
		Name:  "checkpoint",
		Usage: "Inspect checkpoints of interrupted snapshot runs",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List stored checkpoints",
				Flags:  []cli.Flag{dirFlag},
				Action: checkpointList,
			},
			{
				Name:  "clear",
				Usage: "Drop the checkpoint of the configured collection",
				Flags: []cli.Flag{
					dirFlag,
					&cli.BoolFlag{Name: "all", Usage: "Drop every checkpoint"},
				},
				Action: checkpointClear,
			},
		},
	}
}

// checkpointRow is one checkpoint in table form.
type checkpointRow struct {
	Network    string    `json:"network"`
	Collection string    `json:"collection"`
	NextIndex  int64     `json:"nextIndex"`
	ItemCount  int64     `json:"itemCount"`
	Seqno      int64     `json:"seqno"`
	Owners     int       `json:"owners"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func checkpointRowOf(cp *domain.Checkpoint) checkpointRow {
	return checkpointRow{
		Network:    cp.Network,
		Collection: cp.Collection,
		NextIndex:  cp.NextIndex,
		ItemCount:  cp.Snapshot.Collection.ItemCount,
		Seqno:      cp.Snapshot.AtBlock.Seqno,
		Owners:     cp.Snapshot.Owners.Len(),
		UpdatedAt:  cp.UpdatedAt,
	}
}

func checkpointList(c *cli.Context) error {
	env := envFrom(c)
	if c.IsSet("checkpoint-dir") {
		env.Config.Checkpoint.Dir = c.String("checkpoint-dir")
	}

	store, err := openCheckpoints(env)
	if err != nil {
		return err
	}
	cps, err := store.List(c.Context)
	if err != nil {
		return err
	}

	rows := make([]checkpointRow, 0, len(cps))
	for _, cp := range cps {
		rows = append(rows, checkpointRowOf(cp))
	}
	return env.Print(rows)
}

// clearedCheckpoint is printed for every removed checkpoint.
type clearedCheckpoint struct {
	Network    string `json:"network"`
	Collection string `json:"collection"`
}

func checkpointClear(c *cli.Context) error {
	env := envFrom(c)
	if c.IsSet("checkpoint-dir") {
		env.Config.Checkpoint.Dir = c.String("checkpoint-dir")
	}

	var targets []clearedCheckpoint
	if !c.Bool("all") {
		addr, err := env.Collection()
		if err != nil {
			return err
		}
		targets = append(targets, clearedCheckpoint{Network: env.Config.Network.Name, Collection: chain.FormatAddress(addr)})
	}

	store, err := openCheckpoints(env)
	if err != nil {
		return err
	}

	if c.Bool("all") {
		cps, err := store.List(c.Context)
		if err != nil {
			return err
		}
		for _, cp := range cps {
			targets = append(targets, clearedCheckpoint{Network: cp.Network, Collection: cp.Collection})
		}
	}

	for _, t := range targets {
		if err := store.Clear(c.Context, t.Network, t.Collection); err != nil {
			return err
		}
	}
	if targets == nil {
		targets = []clearedCheckpoint{}
	}
	return env.Print(targets)
}
