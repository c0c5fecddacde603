package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
	inmemdb "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database/inmem"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/testutil"
)

var (
	profRepo professor.Repository
	actRepo  activity.Repository
)

func setup(t *testing.T) *commandLine {
	// set up repos
	db := inmemdb.NewDB()
	profRepo = inmemdb.NewProfessorRepository(db)
	actRepo = inmemdb.NewActivityRepository(db)

	validate, _ := testutil.NewValidator()

	// start CLI
	return &commandLine{
		validate:    validate,
		profSvc:     professor.NewService(profRepo),
		activitySvc: activity.NewService(actRepo),
		out:         io.Discard,
	}
}

func mockPassword(t *testing.T, pwd string) {
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)
	var out bytes.Buffer
	cli.out = &out

	for _, args := range [][]string{{"admin"}, {"admin", "lol"}} {
		assert.Equal(t, errHelp, cli.run(args))
	}
	assert.Contains(t, out.String(), "importlogs -file FILE.csv")
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	orig := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = orig })
	gooseRunFunc = func(command string, db *sql.DB, logger goose.Logger, args ...string) error {
		logger.Printf("goose: %s", command)
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "turmas", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	t.Run("goose output reaches the terminal", func(t *testing.T) {
		var out bytes.Buffer
		cli.out = &out
		t.Cleanup(func() { cli.out = io.Discard })
		require.NoError(t, cli.run([]string{"admin", "migrate", "status"}))
		assert.Contains(t, out.String(), "goose: status")
	})
}

func Test_commandLine_addProfessor(t *testing.T) {
	cli := setup(t)
	testutil.CreateProfessor(t, profRepo, "taken", "Taken Prof")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"addprofessor"}, wantErr: errHelp},
		{name: "no name", args: []string{"addprofessor", "-username", "ana"}, extra: extra{pwd: "Senha123"}, wantErr: errHelp},
		{name: "no password", args: []string{"addprofessor", "-username", "ana", "-name", "Ana Prof"}, wantErr: errHelp},
		{name: "username taken", args: []string{"addprofessor", "-username", "taken", "-name", "Ana Prof"}, extra: extra{pwd: "Senha123"}, wantErrStr: professor.ErrUsernameTaken.Error()},
		{name: "created", args: []string{"addprofessor", "-username", "ana", "-name", "Ana Prof"}, extra: extra{pwd: "Senha123"}},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			pwd := ""
			if e, ok := tt.extra.(extra); ok {
				pwd = e.pwd
			}
			mockPassword(t, pwd)
			checkErr(t, tt, cli.run(args))
		})
	}

	t.Run("weak password", func(t *testing.T) {
		mockPassword(t, "fraca")
		err := cli.run([]string{"admin", "addprofessor", "-username", "bia", "-name", "Bia Prof"})
		require.Error(t, err)
		_, err = profRepo.GetProfessorByUsername(context.Background(), "bia")
		assert.True(t, core.IsNotFound(err))
	})

	prof, err := profRepo.GetProfessorByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana Prof", prof.FullName)
	assert.NoError(t, prof.CheckPassword("Senha123"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	prof := testutil.CreateProfessor(t, profRepo, "awe", "Awe Prof")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "professor not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "NovaSenha1"}, wantErr: professor.ErrNotFound},
		{name: "weak password", args: []string{"resetpassword", "-username", prof.Username}, extra: extra{pwd: "lol"}, wantErrStr: "a senha deve ter no mínimo 6 caracteres; a senha deve conter pelo menos uma letra maiúscula; a senha deve conter pelo menos um número"},
		{name: "reset", args: []string{"resetpassword", "-username", prof.Username}, extra: extra{pwd: "NovaSenha1"}},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			pwd := ""
			if e, ok := tt.extra.(extra); ok {
				pwd = e.pwd
			}
			mockPassword(t, pwd)

			err := cli.run(args)
			checkErr(t, tt, err)
			if err == nil {
				refreshed, err := profRepo.GetProfessorByID(context.Background(), prof.ID)
				if err != nil {
					t.Fatalf("GetProfessorByID() failed, %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, prof.PasswordHash) {
					t.Error("failed to update new password")
				}
				assert.NoError(t, refreshed.CheckPassword(pwd))
			}
		})
	}
}

func Test_commandLine_importLogs(t *testing.T) {
	cli := setup(t)

	files := map[string]string{
		"ok.csv": "aluno_id,url,duration,timestamp,categoria\n" +
			"111,chatgpt.com,60,2024-05-01T10:00:00Z,IA\n" +
			"PC-02, youtube.com ,120,2024-05-01 10:05:00,Streaming\n" +
			"111,docs.google.com,30,2024-05-01T10:10:00-03:00,\n",
		"reordered.csv": "url,aluno_id,timestamp,duration\nexample.com,333,2024-05-02T08:00:00Z,15\n",
		"empty.csv":     "",
		"nocolumn.csv":  "aluno_id,url,timestamp\n111,a.com,2024-05-01T10:00:00Z\n",
		"badduration.csv": "aluno_id,url,duration,timestamp\n" +
			"111,a.com,10,2024-05-01T10:00:00Z\n" +
			"111,b.com,dez,2024-05-01T10:00:00Z\n",
		"badts.csv": "aluno_id,url,duration,timestamp\n111,a.com,10,ontem\n",
	}
	orig := openFileFunc
	t.Cleanup(func() { openFileFunc = orig })
	openFileFunc = func(name string) (io.ReadCloser, error) {
		content, ok := files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}

	tests := []cliTest{
		{name: "no args", args: []string{"importlogs"}, wantErr: errHelp},
		{name: "missing file", args: []string{"importlogs", "-file", "lol.csv"}, wantErr: os.ErrNotExist},
		{name: "empty file", args: []string{"importlogs", "-file", "empty.csv"}, wantErrStr: "empty.csv: empty file"},
		{name: "missing column", args: []string{"importlogs", "-file", "nocolumn.csv"}, wantErrStr: "nocolumn.csv: missing column \"duration\""},
		{name: "bad duration", args: []string{"importlogs", "-file", "badduration.csv"}, wantErrStr: "badduration.csv: line 3: invalid duration \"dez\""},
		{name: "bad timestamp", args: []string{"importlogs", "-file", "badts.csv"}, wantErrStr: "badts.csv: line 2: invalid timestamp \"ontem\""},
		{name: "import", args: []string{"importlogs", "-file", "ok.csv"}},
		{name: "reordered columns", args: []string{"importlogs", "-file", "reordered.csv"}},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	logs, err := actRepo.QueryLogs(context.Background(), activity.Filter{})
	require.NoError(t, err)
	require.Len(t, logs, 4)

	byURL := make(map[string]activity.LogEntry, len(logs))
	for _, l := range logs {
		byURL[l.URL] = l
	}
	assert.Equal(t, "IA", byURL["chatgpt.com"].Category.String)
	assert.Equal(t, 120, byURL["youtube.com"].Duration)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC), byURL["youtube.com"].Timestamp)
	assert.Equal(t, time.Date(2024, 5, 1, 13, 10, 0, 0, time.UTC), byURL["docs.google.com"].Timestamp)
	assert.False(t, byURL["docs.google.com"].Category.Valid)
	assert.Equal(t, "333", byURL["example.com"].AlunoID)
}
