package stealpool

import (
	"sync"

	"github.com/Swind/go-steal-pool/core"
)

// =============================================================================
// Global Pool Helper (Singleton)
// =============================================================================

var (
	globalPool *core.Pool
	globalMu   sync.Mutex
)

// InitGlobalPool creates the global pool with the specified number of workers.
// Later calls are no-ops until ShutdownGlobalPool.
func InitGlobalPool(workers int) {
	InitGlobalPoolWithConfig(&core.PoolConfig{ID: "global-pool", Workers: workers})
}

// InitGlobalPoolWithConfig creates the global pool from config.
func InitGlobalPoolWithConfig(config *core.PoolConfig) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalPool != nil {
		return // Already initialized
	}
	globalPool = core.NewPoolWithConfig(config)
}

// GetGlobalPool returns the global pool instance.
// It panics if InitGlobalPool has not been called.
func GetGlobalPool() *core.Pool {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalPool == nil {
		panic("GlobalPool not initialized. Call InitGlobalPool() first.")
	}
	return globalPool
}

// ShutdownGlobalPool closes the global pool.
func ShutdownGlobalPool() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalPool != nil {
		globalPool.Close()
		globalPool = nil
	}
}

// Insert queues task on the global pool.
func Insert(task core.Task) {
	GetGlobalPool().Insert(task)
}
