// Package iocache persists statement bundles so they can be scored by ticker.
package iocache

import (
	"sync"

	"github.com/finscore/finscore/internal/contract"
)

// StoreManagerImpl holds the process-wide statement store.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointer during initialization
	statements   contract.StatementStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetStatementStore returns the statement store, or nil when none is initialized.
func (mgr *StoreManagerImpl) GetStatementStore() contract.StatementStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.statements
}
