package main

import (
	"log"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, log.New(cli.out, "", 0), arguments...)
}
