package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
	logsvc "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "DASHBOARD : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := commandLine{out: os.Stdout}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Error("dashboard command failed: "+err.Error(), err)
		}
		stop()
		os.Exit(1)
	}
}
