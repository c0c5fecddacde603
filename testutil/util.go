// Package testutil holds the fixtures shared by the tests of every package.
package testutil

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
	logsvc "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/services/logger"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database"
)

// DefaultPassword satisfies the password policy.
const DefaultPassword = "Senha123"

// NewLogger returns a logger writing nowhere, with reporting disabled.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return logger
}

// NewValidator returns a validator set up like the applications set it up.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	professor.InitValidators(validate, translator)
	return validate, translator
}

// PrepareDB opens TEST_DATABASE_URL, migrates it and empties every table.
// Tests calling it are skipped when TEST_DATABASE_URL is unset.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	driver := os.Getenv("TEST_DATABASE_DRIVER") // "postgres" or "pgx"
	if driver == "" {
		driver = "postgres"
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.Ping(ctx, db.DB); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	if err := database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	if _, err := db.Exec("TRUNCATE logs, class_students, classes, students, professors RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	return db
}

func CreateProfessor(t *testing.T, repo professor.Repository, username, fullName string, pwd ...string) professor.Professor {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	prof := professor.Professor{Username: username, FullName: fullName, CreatedAt: now, UpdatedAt: now}
	password := DefaultPassword
	if len(pwd) > 0 {
		password = pwd[0]
	}
	if err := prof.SetPassword(password); err != nil {
		t.Fatalf("CreateProfessor() failed: %v", err)
	}
	prof, err := repo.CreateProfessor(context.Background(), prof)
	if err != nil {
		t.Fatalf("CreateProfessor() failed: %v", err)
	}
	return prof
}

func CreateClass(t *testing.T, repo classroom.Repository, professorID int, name string) classroom.Class {
	t.Helper()
	class, err := repo.CreateClass(context.Background(), classroom.Class{
		Name:        name,
		ProfessorID: professorID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return class
}

// CreateStudent creates a student; empty cpf/pcID are stored as NULL.
func CreateStudent(t *testing.T, repo classroom.Repository, fullName, cpf, pcID string) classroom.Student {
	t.Helper()
	student, err := repo.CreateStudent(context.Background(), classroom.Student{
		FullName:  fullName,
		CPF:       null.NewString(cpf, cpf != ""),
		PCID:      null.NewString(pcID, pcID != ""),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return student
}

func AddMember(t *testing.T, repo classroom.Repository, classID, studentID int) {
	t.Helper()
	if err := repo.AddMember(context.Background(), classID, studentID); err != nil {
		t.Fatalf("AddMember() failed: %v", err)
	}
}

// Log builds a log entry; an empty category is stored as NULL.
func Log(alunoID, url string, duration int, ts time.Time, category string) activity.LogEntry {
	return activity.LogEntry{
		AlunoID:   alunoID,
		URL:       url,
		Duration:  duration,
		Timestamp: ts.UTC().Truncate(time.Microsecond),
		Category:  null.NewString(category, category != ""),
	}
}

func InsertLogs(t *testing.T, repo activity.Repository, logs ...activity.LogEntry) {
	t.Helper()
	if err := repo.InsertLogs(context.Background(), logs...); err != nil {
		t.Fatalf("InsertLogs() failed: %v", err)
	}
}
