// Package filestore provides the default store.Store: one JSON document per
// collection under a data directory. Writes go through a temp file + rename
// so no partial-collection write is ever observable.
package filestore

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/storage/store"
)

const seededMarker = ".seeded"

type Store struct {
	dir string
}

var _ store.Store = (*Store)(nil)

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	return &Store{dir: dir}, nil
}

func (st *Store) path(collection string) string {
	return filepath.Join(st.dir, collection+".json")
}

func (st *Store) Get(collection string) ([]byte, error) {
	data, err := ioutil.ReadFile(st.path(collection))
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading collection "+collection)
	}
	return data, nil
}

func (st *Store) Put(collection string, data []byte) error {
	tmp, err := ioutil.TempFile(st.dir, collection+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing collection "+collection)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), st.path(collection)), "replacing collection "+collection)
}

func (st *Store) Seeded() (bool, error) {
	if _, err := os.Stat(filepath.Join(st.dir, seededMarker)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "checking seed marker")
	}
	return true, nil
}

func (st *Store) MarkSeeded() error {
	return errors.Wrap(
		ioutil.WriteFile(filepath.Join(st.dir, seededMarker), []byte("true"), 0644),
		"writing seed marker",
	)
}
