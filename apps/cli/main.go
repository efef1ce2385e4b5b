package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-extractor/core"
	pdfsvc "github.com/trezcool/masomo-extractor/services/pdf"
)

func main() {
	logger := log.New(os.Stderr, "CLI : ", 0)

	cli := commandLine{
		conf:   core.NewConfig(),
		opener: pdfsvc.NewOpener(),
		out:    os.Stdout,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if err != errHelp {
			logger.Printf("error: %s\n", err)
			var fe *core.FetchError
			if errors.As(err, &fe) && fe.Err != nil {
				logger.Printf("cause: %v (status %d)\n", fe.Err, fe.Status)
			}
		}
		os.Exit(1)
	}
}
