// Package memstore provides an in-memory store.Store, used by tests.
package memstore

import (
	"sync"

	"github.com/trezcool/kazi/storage/store"
)

type Store struct {
	mutex       sync.RWMutex
	collections map[string][]byte
	seeded      bool
}

var _ store.Store = (*Store)(nil)

func Open() *Store {
	return &Store{collections: make(map[string][]byte)}
}

func (st *Store) Get(collection string) ([]byte, error) {
	st.mutex.RLock()
	defer st.mutex.RUnlock()

	data, ok := st.collections[collection]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (st *Store) Put(collection string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.collections[collection] = cp
	return nil
}

func (st *Store) Seeded() (bool, error) {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	return st.seeded, nil
}

func (st *Store) MarkSeeded() error {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.seeded = true
	return nil
}
