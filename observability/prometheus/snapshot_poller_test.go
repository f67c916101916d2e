package prometheus

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Swind/go-steal-pool/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type poolStub struct {
	stats core.PoolStats
}

func (s poolStub) Stats() core.PoolStats { return s.stats }

func TestSnapshotPoller_CollectsPoolStats(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller("", reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.AddPool("pool-a", poolStub{stats: core.PoolStats{
		Queued:     4,
		Unfinished: 6,
		Active:     2,
		Workers:    8,
		Executed:   40,
		Stolen:     9,
		Running:    true,
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	assertEventually(t, 2*time.Second, func() bool {
		queued := testutil.ToFloat64(poller.poolQueued.WithLabelValues("pool-a"))
		active := testutil.ToFloat64(poller.poolActive.WithLabelValues("pool-a"))
		return queued == 4 && active == 2
	})

	if got := testutil.ToFloat64(poller.poolRunning.WithLabelValues("pool-a")); got != 1 {
		t.Fatalf("pool running gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(poller.poolUnfinished.WithLabelValues("pool-a")); got != 6 {
		t.Fatalf("pool unfinished gauge = %v, want 6", got)
	}
	if got := testutil.ToFloat64(poller.poolStolen.WithLabelValues("pool-a")); got != 9 {
		t.Fatalf("pool stolen gauge = %v, want 9", got)
	}
}

func TestSnapshotPoller_RealPool(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller("", reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	pool := core.NewPool(3)
	poller.AddPool("real", pool)
	poller.Start(context.Background())
	defer poller.Stop()

	pool.Each(0, 1, 30, func(int) {})
	pool.Wait()

	assertEventually(t, 2*time.Second, func() bool {
		return testutil.ToFloat64(poller.poolExecuted.WithLabelValues("real")) == 30
	})
	if got := testutil.ToFloat64(poller.poolWorkers.WithLabelValues("real")); got != 3 {
		t.Fatalf("pool workers gauge = %v, want 3", got)
	}

	pool.Close()
	assertEventually(t, 2*time.Second, func() bool {
		return testutil.ToFloat64(poller.poolRunning.WithLabelValues("real")) == 0
	})
}

func TestSnapshotPoller_RemovePool(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller("", reg, time.Hour)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.AddPool("gone", poolStub{stats: core.PoolStats{Workers: 2}})
	poller.collectOnce()
	if got := testutil.CollectAndCount(poller.poolWorkers); got != 1 {
		t.Fatalf("series before remove = %d, want 1", got)
	}

	poller.RemovePool("gone")
	poller.collectOnce()
	if got := testutil.CollectAndCount(poller.poolWorkers); got != 0 {
		t.Fatalf("series after remove = %d, want 0", got)
	}
}

// TestSnapshotPoller_SharesExporterNamespace verifies both collector sets use one prefix
// Given: an exporter and a poller registered with namespace "custom"
// When: both have recorded a value and the registry is gathered
// Then: every metric family name starts with "custom_"
func TestSnapshotPoller_SharesExporterNamespace(t *testing.T) {
	// Arrange
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("custom", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}
	poller, err := NewSnapshotPoller("custom", reg, time.Hour)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	// Act
	exporter.RecordTaskStolen("p")
	poller.AddPool("p", poolStub{stats: core.PoolStats{Workers: 1}})
	poller.collectOnce()
	families, err := reg.Gather()

	// Assert
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var sawPoolGauge bool
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "custom_") {
			t.Errorf("metric %q does not use namespace custom", mf.GetName())
		}
		if mf.GetName() == "custom_pool_workers" {
			sawPoolGauge = true
		}
	}
	if !sawPoolGauge {
		t.Error("custom_pool_workers not gathered")
	}
}

func TestSnapshotPoller_StartStop_Idempotent(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller("", reg, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller.Start(ctx)
	poller.Start(ctx)
	poller.Stop()
	poller.Stop()
}

func assertEventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}
