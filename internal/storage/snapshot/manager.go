package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

const (
	filePrefix    = "snapshot-"
	fileExtension = ".json"
)

var (
	ErrNotFound    = errors.New("snapshot: not found")
	ErrNoSnapshots = errors.New("snapshot: no snapshots available")
)

// Config configures the snapshot manager.
type Config struct {
	Dir string

	// RetentionCount keeps the newest N files per network. Zero keeps all.
	RetentionCount int
}

// Manager owns the snapshot files of one directory.
type Manager struct {
	cfg Config
}

// NewManager creates dir if needed.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	return &Manager{cfg: cfg}, nil
}

// Info contains metadata about a snapshot file.
type Info = domain.SnapshotFile

// Encode renders s the way snapshot files store it.
func Encode(s *domain.NFTCollectionSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores s as snapshot-<network>-<seqno>.json, replacing any
// existing file with that name.
func (m *Manager) Write(network string, s *domain.NFTCollectionSnapshot) (*Info, error) {
	data, err := Encode(s)
	if err != nil {
		return nil, domain.ErrSnapshotWrite.WithDetails("encode").WithCause(err)
	}

	finalPath := filepath.Join(m.cfg.Dir, domain.SnapshotFileName(network, s.AtBlock.Seqno))

	tmp, err := os.CreateTemp(m.cfg.Dir, ".snapshot-*.tmp")
	if err != nil {
		return nil, domain.ErrSnapshotWrite.WithDetails("create temp file").WithCause(err)
	}
	tempPath := tmp.Name()
	defer os.Remove(tempPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, domain.ErrSnapshotWrite.WithDetails("write").WithCause(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, domain.ErrSnapshotWrite.WithDetails("sync").WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return nil, domain.ErrSnapshotWrite.WithDetails("close").WithCause(err)
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		return nil, domain.ErrSnapshotWrite.WithDetails("chmod").WithCause(err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return nil, domain.ErrSnapshotWrite.WithDetails("rename").WithCause(err)
	}

	return &Info{
		Network:     network,
		Seqno:       s.AtBlock.Seqno,
		Path:        finalPath,
		Size:        int64(len(data)),
		Owners:      s.Owners.Len(),
		Items:       s.Owners.ItemCount(),
		Fingerprint: s.Fingerprint(),
	}, nil
}

// Read loads the snapshot stored at path.
func Read(path string) (*domain.NFTCollectionSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	var s domain.NFTCollectionSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return &s, nil
}

// Latest loads the snapshot with the highest seqno for network.
func (m *Manager) Latest(network string) (*domain.NFTCollectionSnapshot, *Info, error) {
	infos, err := m.List()
	if err != nil {
		return nil, nil, err
	}

	for i := len(infos) - 1; i >= 0; i-- {
		if infos[i].Network != network {
			continue
		}
		s, err := Read(infos[i].Path)
		if err != nil {
			return nil, nil, err
		}
		return s, infos[i], nil
	}
	return nil, nil, ErrNoSnapshots
}

// List returns snapshot files ordered by network, then seqno. Only file
// metadata is read.
func (m *Manager) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []*Info
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		network, seqno, ok := ParseFileName(e.Name())
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, &Info{
			Network: network,
			Seqno:   seqno,
			Path:    filepath.Join(m.cfg.Dir, e.Name()),
			Size:    fi.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Network != infos[j].Network {
			return infos[i].Network < infos[j].Network
		}
		return infos[i].Seqno < infos[j].Seqno
	})
	return infos, nil
}

// Prune deletes all but the newest RetentionCount files of each network.
// It returns the removed paths.
func (m *Manager) Prune() ([]string, error) {
	if m.cfg.RetentionCount <= 0 {
		return nil, nil
	}

	infos, err := m.List()
	if err != nil {
		return nil, err
	}

	byNetwork := make(map[string][]*Info)
	for _, info := range infos {
		byNetwork[info.Network] = append(byNetwork[info.Network], info)
	}

	var removed []string
	for _, list := range byNetwork {
		excess := len(list) - m.cfg.RetentionCount
		for i := 0; i < excess; i++ {
			if err := os.Remove(list[i].Path); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("snapshot: prune %s: %w", list[i].Path, err)
			}
			removed = append(removed, list[i].Path)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

// ParseFileName extracts network and seqno from a snapshot file name.
// Network names may contain dashes; the seqno is the last component.
func ParseFileName(name string) (network string, seqno int64, ok bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExtension) {
		return "", 0, false
	}
	core := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExtension)

	i := strings.LastIndexByte(core, '-')
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.ParseInt(core[i+1:], 10, 64)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return core[:i], n, true
}
