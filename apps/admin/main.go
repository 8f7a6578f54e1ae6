package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/mahudhurio/apps/shared"
	"github.com/trezcool/mahudhurio/core"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	app, err := shared.NewSeededApp(conf, logger, emailsvc.NewConsoleService(os.Stderr, conf, logger))
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	cli := newCommandLine(app, os.Stdout)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
