package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/storage/database"
	sqlxrepos "github.com/trezcool/kazi/storage/database/sqlx"
	"github.com/trezcool/kazi/storage/repos"
	"github.com/trezcool/kazi/storage/store/filestore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cli := commandLine{}

	switch core.Conf.Store.Engine {
	case "postgres":
		db, err := database.Open(core.Conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(db.Ping())

		xdb := sqlx.NewDb(db, core.Conf.Database.Engine)
		cli.db = db
		cli.usrRepo = sqlxrepos.NewUserRepository(xdb)
		cli.asgRepo = sqlxrepos.NewAssignmentRepository(xdb)
		cli.subRepo = sqlxrepos.NewSubmissionRepository(xdb)
	default: // file
		st, err := filestore.Open(core.Conf.Store.Dir)
		errAndDie(err)

		cli.st = st
		cli.usrRepo = storerepos.NewUserRepository(st)
		cli.asgRepo = storerepos.NewAssignmentRepository(st)
		cli.subRepo = storerepos.NewSubmissionRepository(st)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
