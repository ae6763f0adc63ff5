package main

import (
	"bytes"
	"errors"
	"os"

	"github.com/trezcool/kazi/fs"
	"github.com/trezcool/kazi/storage/repos"
)

// seed loads seed data into the store. A store that was already seeded is
// left untouched.
func (cli *commandLine) seed(path string) error {
	if cli.st == nil {
		return errors.New("seed requires the file store engine")
	}

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = appfs.FS.ReadFile(appfs.DefaultSeedPath)
	}
	if err != nil {
		return err
	}
	return storerepos.Seed(cli.st, bytes.NewReader(data))
}
