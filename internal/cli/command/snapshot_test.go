package command

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/nftsnap/internal/core/domain"
	"github.com/yndnr/nftsnap/internal/storage/snapshot"
)

func (h *harness) snapshotArgs(extra ...string) []string {
	args := []string{
		"--collection", h.collectionAddr(), "-o", "json",
		"snapshot", "--dir", h.dir, "--delay", "0s",
		"--checkpoint-dir", filepath.Join(h.dir, "checkpoints"),
	}
	return append(args, extra...)
}

func TestSnapshotCommand_WritesFile(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run(h.snapshotArgs()...)
	if err != nil {
		t.Fatalf("snapshot error = %v", err)
	}

	var summary snapshotSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, stdout)
	}
	if summary.Items != 3 || summary.Owners != 2 || summary.OwnedItems != 2 {
		t.Errorf("summary = %+v, want 3 items, 2 owners, 2 owned items", summary)
	}
	if summary.Resumed {
		t.Error("fresh run reported as resumed")
	}

	want := filepath.Join(h.dir, domain.SnapshotFileName("mainnet", 1))
	if summary.Path != want {
		t.Errorf("path = %q, want %q", summary.Path, want)
	}

	s, err := snapshot.Read(want)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	stat, ok := s.Owners.Get(mustFormat(ownerA))
	if !ok || stat.Count != 1 || stat.Items[0] != mustFormat(h.collection.Items[0].Address) {
		t.Errorf("owner A = %+v, %v", stat, ok)
	}
	if summary.Fingerprint != s.Fingerprint() {
		t.Errorf("fingerprint = %q, file has %q", summary.Fingerprint, s.Fingerprint())
	}
}

func TestSnapshotCommand_WithoutCheckpoints(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.run(h.snapshotArgs("--no-checkpoint")...); err != nil {
		t.Fatalf("snapshot error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.dir, "checkpoints")); !os.IsNotExist(err) {
		t.Errorf("checkpoint store opened with --no-checkpoint: %v", err)
	}

	_, _, err := h.run(h.snapshotArgs("--no-checkpoint", "--resume")...)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("--resume without checkpoints: error = %v", err)
	}
}

func TestSnapshotCommand_MissingCollection(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("snapshot", "--dir", h.dir, "--no-checkpoint")
	if !errors.Is(err, domain.ErrCollectionAddressMissing) {
		t.Fatalf("error = %v, want ErrCollectionAddressMissing", err)
	}
	entries, _ := os.ReadDir(h.dir)
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want none", len(entries))
	}
}

func TestSnapshotCommand_CollectionReadFails(t *testing.T) {
	h := newHarness(t)
	h.net.Fail(h.collection.Address, "get_collection_data", errors.New("exit code 11"))

	_, _, err := h.run(h.snapshotArgs("--no-checkpoint")...)
	if !errors.Is(err, domain.ErrCollectionRead) {
		t.Fatalf("error = %v, want ErrCollectionRead", err)
	}
	if _, err := os.Stat(filepath.Join(h.dir, domain.SnapshotFileName("mainnet", 1))); !os.IsNotExist(err) {
		t.Error("snapshot file written after a failed collection read")
	}
}

func TestSnapshotCommand_Retain(t *testing.T) {
	h := newHarness(t)

	for seqno := int64(1); seqno <= 3; seqno++ {
		h.net.SetBlock(domain.BlockShort{Seqno: seqno, Shard: "-9223372036854775808", Workchain: -1})
		if _, _, err := h.run(h.snapshotArgs("--no-checkpoint", "--retain", "2")...); err != nil {
			t.Fatalf("run %d: %v", seqno, err)
		}
	}

	mgr, err := snapshot.NewManager(snapshot.Config{Dir: h.dir})
	if err != nil {
		t.Fatal(err)
	}
	infos, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 || infos[0].Seqno != 2 || infos[1].Seqno != 3 {
		t.Errorf("kept %+v, want seqno 2 and 3", infos)
	}
}

// writeSnapshot stores a snapshot where each owner holds the given items.
func writeSnapshot(t *testing.T, dir string, seqno int64, owners map[string][]string, order []string) {
	t.Helper()

	idx := domain.NewOwnerIndex()
	for _, owner := range order {
		for _, item := range owners[owner] {
			idx.Add(owner, item)
		}
	}
	s := &domain.NFTCollectionSnapshot{
		AtBlock:    domain.BlockShort{Seqno: seqno, Shard: "-9223372036854775808", Workchain: -1},
		Collection: domain.NFTCollectionInfo{Address: "EQcoll", ItemCount: 3},
		Owners:     idx,
	}

	mgr, err := snapshot.NewManager(snapshot.Config{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Write("mainnet", s); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotList(t *testing.T) {
	h := newHarness(t)
	writeSnapshot(t, h.dir, 10, map[string][]string{"A": {"i0"}}, []string{"A"})
	writeSnapshot(t, h.dir, 12, map[string][]string{"A": {"i0"}}, []string{"A"})

	stdout, _, err := h.run("-o", "json", "snapshot", "list", "--dir", h.dir)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	var infos []domain.SnapshotFile
	if err := json.Unmarshal([]byte(stdout), &infos); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(infos) != 2 || infos[0].Seqno != 10 || infos[1].Seqno != 12 {
		t.Errorf("list = %+v", infos)
	}
}

func TestSnapshotShow_Table(t *testing.T) {
	h := newHarness(t)
	writeSnapshot(t, h.dir, 10, map[string][]string{"B": {"i1"}, "A": {"i0", "i2"}}, []string{"B", "A"})

	stdout, _, err := h.run("snapshot", "show", "--dir", h.dir)
	if err != nil {
		t.Fatalf("show error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("show printed %d lines, want header and 2 rows:\n%s", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[1], "B") || !strings.HasPrefix(lines[2], "A") {
		t.Errorf("rows not in first-appearance order:\n%s", stdout)
	}
	if strings.Contains(stdout, "i0") {
		t.Errorf("item list shown without --wide:\n%s", stdout)
	}
}

func TestSnapshotShow_MissingFile(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run("snapshot", "show", filepath.Join(h.dir, "nope.json")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestSnapshotDiff(t *testing.T) {
	h := newHarness(t)
	writeSnapshot(t, h.dir, 10, map[string][]string{"A": {"i0", "i1"}, "B": {"i2"}}, []string{"A", "B"})
	writeSnapshot(t, h.dir, 11, map[string][]string{"A": {"i0"}, "B": {"i2", "i1"}, "C": {"i3"}}, []string{"A", "B", "C"})

	tests := []struct {
		name string
		args []string
	}{
		{name: "latest pair", args: []string{"-o", "json", "snapshot", "diff", "--dir", h.dir}},
		{name: "explicit files", args: []string{
			"-o", "json", "snapshot", "diff",
			filepath.Join(h.dir, domain.SnapshotFileName("mainnet", 10)),
			filepath.Join(h.dir, domain.SnapshotFileName("mainnet", 11)),
		}},
	}

	want := []domain.OwnershipChange{
		{Item: "i1", From: "A", To: "B"},
		{Item: "i3", To: "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := h.run(tt.args...)
			if err != nil {
				t.Fatalf("diff error = %v", err)
			}
			var got []domain.OwnershipChange
			if err := json.Unmarshal([]byte(stdout), &got); err != nil {
				t.Fatalf("decode: %v\n%s", err, stdout)
			}
			if len(got) != len(want) {
				t.Fatalf("diff = %+v, want %+v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("change %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSnapshotDiff_NeedsTwoSnapshots(t *testing.T) {
	h := newHarness(t)
	writeSnapshot(t, h.dir, 10, map[string][]string{"A": {"i0"}}, []string{"A"})

	_, _, err := h.run("snapshot", "diff", "--dir", h.dir)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestSnapshotPrune(t *testing.T) {
	h := newHarness(t)
	for _, seqno := range []int64{1, 2, 3} {
		writeSnapshot(t, h.dir, seqno, map[string][]string{"A": {"i0"}}, []string{"A"})
	}

	if _, _, err := h.run("snapshot", "prune", "--dir", h.dir); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("prune without retain: error = %v", err)
	}

	stdout, _, err := h.run("-o", "json", "snapshot", "prune", "--dir", h.dir, "--retain", "1")
	if err != nil {
		t.Fatalf("prune error = %v", err)
	}
	var removed []string
	if err := json.Unmarshal([]byte(stdout), &removed); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(removed) != 2 {
		t.Errorf("removed %v, want 2 files", removed)
	}
	if _, err := os.Stat(filepath.Join(h.dir, domain.SnapshotFileName("mainnet", 3))); err != nil {
		t.Errorf("newest snapshot removed: %v", err)
	}
}
