package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/KitchenMishap/huffpack/cli"
	"github.com/KitchenMishap/huffpack/jobs"
	"github.com/KitchenMishap/huffpack/logger"
	"github.com/KitchenMishap/huffpack/server"
	"github.com/KitchenMishap/huffpack/session"
)

func main() {
	var sBatchFlag = flag.String("Batch", "", "Encode every file in this directory into .huf archives")
	var sOutFlag = flag.String("Out", "", "Directory for batch archives (default: next to each input)")
	var bVerifyFlag = flag.Bool("Verify", false, "Decode each batch archive again before writing it")
	var iWorkersFlag = flag.Int("Workers", 0, "Batch workers (0 = based on CPU count)")
	var bRawFlag = flag.Bool("Raw", false, "Menu writes bare packed buffers; tables are kept for this run only")
	var iTablesFlag = flag.Int("Tables", session.DefaultSize, "How many raw-file code tables the menu remembers")
	var sServeFlag = flag.String("Serve", "", "Serve the HTTP encode/decode API on this address, e.g. :8080")
	flag.Parse()

	logg := logger.New()

	var err error
	switch {
	case *sServeFlag != "":
		r := server.New(server.Dependencies{
			CodecHandler: server.NewCodecHandler(logg, server.DefaultMaxBody),
		})
		logg.Infof("starting server at %s", *sServeFlag)
		err = r.Run(*sServeFlag)
	case *sBatchFlag != "":
		var startTime = time.Now()
		var reports []jobs.FileReport
		reports, err = jobs.EncodeDir(context.Background(), *sBatchFlag, jobs.Options{
			OutDir:  *sOutFlag,
			Workers: *iWorkersFlag,
			Verify:  *bVerifyFlag,
			Logger:  logg,
		})
		if err == nil {
			jobs.PrintReport(os.Stdout, reports)
			fmt.Printf("[%5.1f min] %s\n", time.Since(startTime).Minutes(), "==** Finished **==")
		}
	default:
		var tables *session.Store
		tables, err = session.New(*iTablesFlag)
		if err == nil {
			menu := cli.NewMenu(os.Stdin, os.Stdout, tables, logg)
			menu.Raw = *bRawFlag
			err = menu.Run()
		}
	}

	if err != nil {
		logg.Errorf("%v", err)
		os.Exit(1)
	}
}
