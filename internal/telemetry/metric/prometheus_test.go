package metric

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func value(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	close(ch)

	m := &dto.Metric{}
	if err := (<-ch).Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	switch {
	case m.Counter != nil:
		return m.GetCounter().GetValue()
	case m.Gauge != nil:
		return m.GetGauge().GetValue()
	}
	t.Fatalf("unsupported metric %v", m)
	return 0
}

func seriesCount(t *testing.T, r *Registry, name string) int {
	t.Helper()
	families, err := r.Prometheus().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return len(f.GetMetric())
		}
	}
	return 0
}

func TestRegistry_ItemVisited(t *testing.T) {
	r := NewRegistry()

	r.ItemVisited(StatusOwned)
	r.ItemVisited(StatusOwned)
	r.ItemVisited(StatusSkipped)

	if got := value(t, r.ItemsVisited.WithLabelValues(StatusOwned)); got != 2 {
		t.Errorf("owned = %v, want 2", got)
	}
	if got := value(t, r.ItemsVisited.WithLabelValues(StatusSkipped)); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}
}

func TestRegistry_ObserveGetMethod(t *testing.T) {
	r := NewRegistry()

	r.ObserveGetMethod("get_nft_data", 120*time.Millisecond, nil)
	r.ObserveGetMethod("get_nft_data", 80*time.Millisecond, errors.New("boom"))

	if n := seriesCount(t, r, "nftsnap_get_method_duration_seconds"); n != 2 {
		t.Errorf("series = %d, want 2 (ok and error)", n)
	}
}

func TestRegistry_SnapshotWritten(t *testing.T) {
	r := NewRegistry()
	r.SnapshotWritten(3, 10, 41000000)

	if got := value(t, r.SnapshotOwners); got != 3 {
		t.Errorf("owners = %v, want 3", got)
	}
	if got := value(t, r.SnapshotItems); got != 10 {
		t.Errorf("items = %v, want 10", got)
	}
	if got := value(t, r.SnapshotSeqno); got != 41000000 {
		t.Errorf("seqno = %v, want 41000000", got)
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	r.ItemVisited(StatusFailed)
	r.ObserveGetMethod("x", time.Second, nil)
	r.SnapshotWritten(1, 1, 1)
	if r.Prometheus() != nil {
		t.Error("nil registry should expose no prometheus registry")
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ItemVisited(StatusOwned)
	r.SnapshotWritten(1, 1, 7)

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`nftsnap_items_visited_total{status="owned"} 1`,
		"nftsnap_snapshot_seqno 7",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegistries_Independent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.ItemVisited(StatusOwned)
	if got := value(t, b.ItemsVisited.WithLabelValues(StatusOwned)); got != 0 {
		t.Errorf("registries share state: %v", got)
	}
}
