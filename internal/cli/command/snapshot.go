package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nftsnap/internal/cli/output"
	"github.com/yndnr/nftsnap/internal/core/domain"
	"github.com/yndnr/nftsnap/internal/core/service"
	"github.com/yndnr/nftsnap/internal/storage"
	"github.com/yndnr/nftsnap/internal/storage/snapshot"
)

// SnapshotCommand returns the snapshot command group.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Record which address owns every item of the collection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "Output directory"},
			&cli.DurationFlag{Name: "delay", Usage: "Pause after every item index (default 250ms)"},
			&cli.Float64Flag{Name: "rate", Usage: "Item indices per second; overrides --delay"},
			&cli.IntFlag{Name: "burst", Usage: "Token bucket burst for --rate"},
			&cli.IntFlag{Name: "retain", Usage: "Keep only the newest N snapshot files of the network"},
			&cli.BoolFlag{Name: "resume", Usage: "Continue an interrupted run from its checkpoint"},
			&cli.StringFlag{Name: "checkpoint-dir", Usage: "Checkpoint store directory"},
			&cli.BoolFlag{Name: "no-checkpoint", Usage: "Disable checkpoints"},
			&cli.BoolFlag{Name: "progress", Usage: "Draw a progress bar on stderr"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address during the run"},
		},
		Action: snapshotRun,
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List snapshot files in the output directory",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "dir", Usage: "Output directory"}},
				Action: snapshotList,
			},
			{
				Name:      "show",
				Usage:     "Show the owners recorded in a snapshot file",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "dir", Usage: "Output directory"}},
				Action:    snapshotShow,
			},
			{
				Name:      "diff",
				Usage:     "List items whose owner changed between two snapshots",
				ArgsUsage: "[OLD NEW]",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "dir", Usage: "Output directory"}},
				Action:    snapshotDiff,
			},
			{
				Name:  "prune",
				Usage: "Delete all but the newest snapshot files of each network",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "Output directory"},
					&cli.IntFlag{Name: "retain", Usage: "Files to keep per network"},
				},
				Action: snapshotPrune,
			},
		},
	}
}

// applySnapshotFlags copies the snapshot command flags into the config.
func applySnapshotFlags(c *cli.Context, env *Env) {
	s := &env.Config.Snapshot
	if c.IsSet("dir") {
		s.Dir = c.String("dir")
	}
	if c.IsSet("delay") {
		s.Delay = c.Duration("delay")
	}
	if c.IsSet("rate") {
		s.Rate = c.Float64("rate")
	}
	if c.IsSet("burst") {
		s.Burst = c.Int("burst")
	}
	if c.IsSet("retain") {
		s.Retain = c.Int("retain")
	}

	cp := &env.Config.Checkpoint
	if c.IsSet("checkpoint-dir") {
		cp.Dir = c.String("checkpoint-dir")
	}
	if c.Bool("no-checkpoint") {
		cp.Enabled = false
	}
	if c.IsSet("metrics-addr") {
		env.Config.Metrics.Addr = c.String("metrics-addr")
	}
}

func snapshotManager(env *Env) (*snapshot.Manager, error) {
	return snapshot.NewManager(snapshot.Config{
		Dir:            env.Config.Snapshot.Dir,
		RetentionCount: env.Config.Snapshot.Retain,
	})
}

// openCheckpoints opens the badger-backed checkpoint store and registers
// it for shutdown.
func openCheckpoints(env *Env) (*storage.CheckpointStore, error) {
	engine, err := storage.NewBadgerEngine(storage.DefaultKVConfig(env.Config.Checkpoint.Dir), env.Logger)
	if err != nil {
		return nil, domain.ErrCheckpoint.WithDetails("open " + env.Config.Checkpoint.Dir).WithCause(err)
	}
	engine.RegisterMetrics(env.Metrics.Prometheus())
	env.shutdown.OnClose(engine.Close)
	return storage.NewCheckpointStore(engine), nil
}

// snapshotSummary is the result printed after a run.
type snapshotSummary struct {
	Network     string        `json:"network"`
	Collection  string        `json:"collection"`
	Seqno       int64         `json:"seqno"`
	Items       int64         `json:"items"`
	Owners      int           `json:"owners"`
	OwnedItems  int           `json:"ownedItems"`
	Resumed     bool          `json:"resumed"`
	Path        string        `json:"path"`
	Fingerprint string        `json:"fingerprint"`
	Elapsed     time.Duration `json:"elapsed"`
}

func snapshotRun(c *cli.Context) error {
	env := envFrom(c)
	applySnapshotFlags(c, env)
	cfg := env.Config

	collection, err := env.Collection()
	if err != nil {
		return err
	}
	client, err := env.Client(c.Context)
	if err != nil {
		return err
	}
	mgr, err := snapshotManager(env)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithLogger(env.Logger),
		service.WithMetrics(env.Metrics),
		service.WithPacer(service.NewPacer(cfg.Snapshot.Delay, cfg.Snapshot.Rate, cfg.Snapshot.Burst)),
	}
	if cfg.Checkpoint.Enabled {
		store, err := openCheckpoints(env)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithCheckpoints(store, cfg.Checkpoint.Interval))
	} else if c.Bool("resume") {
		return domain.ErrInvalidArgument.WithDetails("--resume needs checkpoints enabled")
	}

	var bar *output.ProgressBar
	if c.Bool("progress") {
		bar = output.NewProgressBar(env.Err, "items")
		opts = append(opts, service.WithProgress(bar.Update))
	}

	if cfg.Metrics.Addr != "" {
		metricsCtx, stop := context.WithCancel(c.Context)
		defer stop()
		go func() {
			if err := env.Metrics.Serve(metricsCtx, cfg.Metrics.Addr, env.Logger); err != nil {
				env.Logger.Warn("metrics endpoint stopped", "error", err)
			}
		}()
	}

	res, err := service.NewSnapshotter(client, mgr, opts...).Run(c.Context, service.SnapshotRequest{
		Network:    cfg.Network.Name,
		Collection: collection,
		Resume:     c.Bool("resume"),
	})
	if err != nil {
		if bar != nil {
			fmt.Fprintln(env.Err)
		}
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	if removed, err := mgr.Prune(); err != nil {
		env.Logger.Warn("prune snapshots failed", "error", err)
	} else if len(removed) > 0 {
		env.Logger.Info("pruned old snapshots", "removed", len(removed))
	}

	s := res.Snapshot
	return env.Print(&snapshotSummary{
		Network:     cfg.Network.Name,
		Collection:  s.Collection.Address,
		Seqno:       s.AtBlock.Seqno,
		Items:       s.Collection.ItemCount,
		Owners:      s.Owners.Len(),
		OwnedItems:  s.Owners.ItemCount(),
		Resumed:     res.Resumed,
		Path:        res.File.Path,
		Fingerprint: res.File.Fingerprint,
		Elapsed:     res.Elapsed.Round(time.Millisecond),
	})
}

func snapshotList(c *cli.Context) error {
	env := envFrom(c)
	applySnapshotFlags(c, env)

	mgr, err := snapshotManager(env)
	if err != nil {
		return err
	}
	infos, err := mgr.List()
	if err != nil {
		return err
	}
	if infos == nil {
		infos = []*snapshot.Info{}
	}
	return env.Print(infos)
}

// ownerRow is one owner of a snapshot in table form.
type ownerRow struct {
	Owner string   `json:"owner"`
	Count int      `json:"count"`
	Items []string `json:"items" table:"wide"`
}

// loadSnapshot reads path, or the newest snapshot of the configured
// network when path is empty.
func loadSnapshot(env *Env, path string) (*domain.NFTCollectionSnapshot, error) {
	if path != "" {
		return snapshot.Read(path)
	}
	mgr, err := snapshotManager(env)
	if err != nil {
		return nil, err
	}
	s, _, err := mgr.Latest(env.Config.Network.Name)
	return s, err
}

func snapshotShow(c *cli.Context) error {
	env := envFrom(c)
	applySnapshotFlags(c, env)

	s, err := loadSnapshot(env, c.Args().First())
	if err != nil {
		return err
	}

	if env.Format != output.FormatTable {
		return env.Print(s)
	}

	rows := make([]ownerRow, 0, s.Owners.Len())
	for _, owner := range s.Owners.Owners() {
		stat, _ := s.Owners.Get(owner)
		rows = append(rows, ownerRow{Owner: owner, Count: stat.Count, Items: stat.Items})
	}
	return env.Print(rows)
}

func snapshotDiff(c *cli.Context) error {
	env := envFrom(c)
	applySnapshotFlags(c, env)

	var before, after *domain.NFTCollectionSnapshot
	switch c.NArg() {
	case 2:
		var err error
		if before, err = snapshot.Read(c.Args().Get(0)); err != nil {
			return err
		}
		if after, err = snapshot.Read(c.Args().Get(1)); err != nil {
			return err
		}
	case 0:
		var err error
		if before, after, err = latestPair(env); err != nil {
			return err
		}
	default:
		return domain.ErrInvalidArgument.WithDetails("diff takes two files or none")
	}

	if before.Collection.Address != after.Collection.Address {
		env.Logger.Warn("comparing snapshots of different collections",
			"old", before.Collection.Address, "new", after.Collection.Address)
	}

	changes := domain.DiffOwners(&before.Owners, &after.Owners)
	if changes == nil {
		changes = []domain.OwnershipChange{}
	}
	return env.Print(changes)
}

// latestPair loads the two newest snapshots of the configured network.
func latestPair(env *Env) (before, after *domain.NFTCollectionSnapshot, err error) {
	mgr, err := snapshotManager(env)
	if err != nil {
		return nil, nil, err
	}
	infos, err := mgr.List()
	if err != nil {
		return nil, nil, err
	}

	var paths []string
	for _, info := range infos {
		if info.Network == env.Config.Network.Name {
			paths = append(paths, info.Path)
		}
	}
	if len(paths) < 2 {
		return nil, nil, domain.ErrInvalidArgument.WithDetails(
			fmt.Sprintf("need two %s snapshots in %s, found %d", env.Config.Network.Name, env.Config.Snapshot.Dir, len(paths)))
	}

	if before, err = snapshot.Read(paths[len(paths)-2]); err != nil {
		return nil, nil, err
	}
	if after, err = snapshot.Read(paths[len(paths)-1]); err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

func snapshotPrune(c *cli.Context) error {
	env := envFrom(c)
	applySnapshotFlags(c, env)
	if env.Config.Snapshot.Retain <= 0 {
		return domain.ErrInvalidArgument.WithDetails("prune needs --retain or snapshot.retain above zero")
	}

	mgr, err := snapshotManager(env)
	if err != nil {
		return err
	}
	removed, err := mgr.Prune()
	if err != nil {
		return err
	}
	if removed == nil {
		removed = []string{}
	}
	return env.Print(removed)
}
