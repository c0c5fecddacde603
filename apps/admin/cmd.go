package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	openFileFunc     = func(name string) (io.ReadCloser, error) { return os.Open(name) }

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db          *sql.DB
	validate    *validator.Validate
	profSvc     *professor.Service
	activitySvc *activity.Service
	out         io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                  - run a goose command (up, down, status, redo, up-to VERSION, ...)")
	fmt.Fprintln(cli.out, "  addprofessor -username USERNAME -name NAME - create a professor. The password will be prompted next.")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME          - reset a professor's password")
	fmt.Fprintln(cli.out, "  importlogs -file FILE.csv                 - import activity logs (aluno_id,url,duration,timestamp,categoria)")
}

// promptPassword reads a password from the terminal without echoing it.
func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addProfessorCmd := flag.NewFlagSet("addprofessor", flag.ExitOnError)
	addProfessorUname := addProfessorCmd.String("username", "", "The professor's username.")
	addProfessorName := addProfessorCmd.String("name", "", "The professor's full name. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The professor's username. The password will be prompted next.")

	importLogsCmd := flag.NewFlagSet("importlogs", flag.ExitOnError)
	importLogsFile := importLogsCmd.String("file", "", "The CSV file holding the logs.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "addprofessor":
		if err := addProfessorCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addProfessorUname == "" || *addProfessorName == "" {
			addProfessorCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addProfessorCmd.Usage()
			return errHelp
		}
		return cli.addProfessor(*addProfessorUname, *addProfessorName, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)

	case "importlogs":
		if err := importLogsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importLogsFile == "" {
			importLogsCmd.Usage()
			return errHelp
		}
		return cli.importLogs(*importLogsFile)

	default:
		cli.printUsage()
		return errHelp
	}
}
