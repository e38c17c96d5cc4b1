// Package iocache keeps fetched tracker and forge payloads and the history
// of dataset builds in a SQL database.
package iocache

import (
	"sync"

	"github.com/kuro1999/isw2-dataset/internal/contract"
)

// CacheStoreManager manages the fetch cache and the run store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	fetch        contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetFetchStore returns the fetch CacheStore.
func (mgr *CacheStoreManager) GetFetchStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.fetch
}

// GetRunStore returns the RunStore. It is a no-op store when run history is disabled.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
