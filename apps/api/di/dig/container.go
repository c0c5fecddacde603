package dig_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/apps/api/echo"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
	logsvc "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/services/logger"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database"
	sqlxrepos "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf         *core.Config
	Logger       core.Logger
	DB           *sqlx.DB
	Validate     *validator.Validate
	Translator   ut.Translator
	SessionStore sessions.Store
	ProfessorSvc *professor.Service
	ClassroomSvc *classroom.Service
	ActivitySvc  *activity.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, *sqlx.DB) {
	setUp := func() (*sql.DB, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Ping(ctx, db); err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, sqlx.NewDb(db, conf.Database.Engine)
}

func newServer(p serverParams) (*echoapi.Server, error) {
	return echoapi.NewServer(echoapi.Options{
		Address:        p.Conf.Server.Address,
		AppName:        p.Conf.AppName,
		Debug:          p.Conf.Debug,
		TestMode:       p.Conf.TestMode,
		DisableReqLogs: p.Conf.Server.DisableReqLogs,
		SessionName:    p.Conf.Session.Name,
		SessionStore:   p.SessionStore,
		Logger:         p.Logger,
		Validate:       p.Validate,
		Translator:     p.Translator,
		DB:             p.DB,
		ProfessorSvc:   p.ProfessorSvc,
		ClassroomSvc:   p.ClassroomSvc,
		ActivitySvc:    p.ActivitySvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(sqlxrepos.NewProfessorRepository))
	must(c.Provide(sqlxrepos.NewClassroomRepository))
	must(c.Provide(sqlxrepos.NewActivityRepository))
	must(c.Provide(professor.NewService))
	must(c.Provide(classroom.NewService))
	must(c.Provide(activity.NewService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(echoapi.NewSessionStore))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
