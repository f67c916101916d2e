package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/Swind/go-steal-pool/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PoolSnapshotProvider provides current pool stats snapshots.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

var _ PoolSnapshotProvider = (*core.Pool)(nil)

// SnapshotPoller periodically exports pool Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolQueued     *prom.GaugeVec
	poolUnfinished *prom.GaugeVec
	poolActive     *prom.GaugeVec
	poolWorkers    *prom.GaugeVec
	poolRunning    *prom.GaugeVec
	poolExecuted   *prom.GaugeVec
	poolStolen     *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
// An empty namespace uses the exporter's default.
func NewSnapshotPoller(namespace string, reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	gauge := func(name, help string) *prom.GaugeVec {
		return prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"pool"})
	}

	p := &SnapshotPoller{
		interval:       interval,
		pools:          make(map[string]PoolSnapshotProvider),
		poolQueued:     gauge("pool_queued", "Queued tasks per pool."),
		poolUnfinished: gauge("pool_unfinished", "Accepted tasks not yet finished or discarded."),
		poolActive:     gauge("pool_active", "Executing tasks per pool."),
		poolWorkers:    gauge("pool_workers", "Worker count per pool."),
		poolRunning:    gauge("pool_running", "Pool running state (1=running, 0=stopped)."),
		poolExecuted:   gauge("pool_executed_total", "Pool executed task count snapshot."),
		poolStolen:     gauge("pool_stolen_total", "Pool stolen task count snapshot."),
	}

	for _, vec := range []**prom.GaugeVec{
		&p.poolQueued, &p.poolUnfinished, &p.poolActive, &p.poolWorkers,
		&p.poolRunning, &p.poolExecuted, &p.poolStolen,
	} {
		registered, err := registerCollector(reg, *vec)
		if err != nil {
			return nil, err
		}
		*vec = registered
	}

	return p, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// RemovePool stops exporting the named pool and deletes its series.
func (p *SnapshotPoller) RemovePool(name string) {
	if p == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	delete(p.pools, name)
	p.poolsMu.Unlock()

	for _, vec := range []*prom.GaugeVec{
		p.poolQueued, p.poolUnfinished, p.poolActive, p.poolWorkers,
		p.poolRunning, p.poolExecuted, p.poolStolen,
	} {
		vec.DeleteLabelValues(name)
	}
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx, p.done)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.poolUnfinished.WithLabelValues(name).Set(float64(stats.Unfinished))
		p.poolActive.WithLabelValues(name).Set(float64(stats.Active))
		p.poolWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		p.poolExecuted.WithLabelValues(name).Set(float64(stats.Executed))
		p.poolStolen.WithLabelValues(name).Set(float64(stats.Stolen))
		if stats.Running {
			p.poolRunning.WithLabelValues(name).Set(1)
		} else {
			p.poolRunning.WithLabelValues(name).Set(0)
		}
	}
}
