package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
	logsvc "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/services/logger"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database"
	sqlxrepos "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	rollbarLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	rollbarLogger.Enable(!conf.Debug)
	logger = rollbarLogger

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	errAndDie(database.Ping(ctx, db))
	cancel()
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	professor.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:          db,
		validate:    validate,
		profSvc:     professor.NewService(sqlxrepos.NewProfessorRepository(dbx)),
		activitySvc: activity.NewService(sqlxrepos.NewActivityRepository(dbx)),
		out:         os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed: "+err.Error(), err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
