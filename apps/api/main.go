package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
	"github.com/trezcool/kazi/fs"
	"github.com/trezcool/kazi/services/email"
	"github.com/trezcool/kazi/services/logger"
	"github.com/trezcool/kazi/storage/database"
	sqlxrepos "github.com/trezcool/kazi/storage/database/sqlx"
	"github.com/trezcool/kazi/storage/repos"
	"github.com/trezcool/kazi/storage/store/filestore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.Debug {
		appLogger = logsvc.NewStdLogger(std)
	} else {
		rl := logsvc.NewRollbarLogger(std, core.Conf)
		defer rl.Wait()
		appLogger = rl
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	usrRepo, asgRepo, subRepo, err := openRepositories()
	if err != nil {
		return err
	}

	usrSvc := user.NewService(usrRepo)
	subSvc := submission.NewService(subRepo, asgRepo, usrRepo, mailSvc)
	asgSvc := assignment.NewService(asgRepo, subRepo)

	app := echoapi.NewServer(&echoapi.Options{
		Address:       core.Conf.Server.Address(),
		Logger:        appLogger,
		UserSvc:       usrSvc,
		AssignmentSvc: asgSvc,
		SubmissionSvc: subSvc,
	})

	serverErrs := make(chan error, 1)
	go func() { serverErrs <- app.Start() }()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-serverErrs:
		return err
	case sig := <-shutdown:
		appLogger.Info("shutting down..", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err = app.Stop(ctx); err != nil {
			appLogger.Error("graceful shutdown failed", err)
		}
	}
	return nil
}

// openRepositories opens the configured store engine and returns the domain
// repositories backed by it. The file engine is seeded from the embedded seed
// data on first run; the postgres engine is migrated instead (see the admin
// app's migrate and seed commands).
func openRepositories() (user.Repository, assignment.Repository, submission.Repository, error) {
	switch core.Conf.Store.Engine {
	case "postgres":
		db, err := database.Open(core.Conf)
		if err != nil {
			return nil, nil, nil, err
		}
		xdb := sqlx.NewDb(db, core.Conf.Database.Engine)
		return sqlxrepos.NewUserRepository(xdb),
			sqlxrepos.NewAssignmentRepository(xdb),
			sqlxrepos.NewSubmissionRepository(xdb),
			nil

	default: // file
		st, err := filestore.Open(core.Conf.Store.Dir)
		if err != nil {
			return nil, nil, nil, err
		}
		seed, err := readSeedData()
		if err != nil {
			return nil, nil, nil, err
		}
		if err = storerepos.Seed(st, bytes.NewReader(seed)); err != nil {
			return nil, nil, nil, err
		}
		return storerepos.NewUserRepository(st),
			storerepos.NewAssignmentRepository(st),
			storerepos.NewSubmissionRepository(st),
			nil
	}
}

func readSeedData() ([]byte, error) {
	if path := core.Conf.Store.SeedPath; path != "" {
		return os.ReadFile(path)
	}
	return appfs.FS.ReadFile(appfs.DefaultSeedPath)
}
