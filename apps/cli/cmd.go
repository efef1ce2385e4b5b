package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/masomo-extractor/core"
	"github.com/trezcool/masomo-extractor/core/extraction"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	opener extraction.Opener
	out    io.Writer
}

// run executes the command line; args includes the program name.
func (cli *commandLine) run(ctx context.Context, args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pdfx",
		Short:         "Extract the text of remotely hosted PDF documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.AddCommand(cli.extractCmd(), cli.versionCmd())
	return root
}

func (cli *commandLine) extractCmd() *cobra.Command {
	var (
		timeout   time.Duration
		threshold int
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Print the text of every page of the PDF at url as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := cli.conf.Extractor
			conf.FetchTimeout = timeout
			svc := extraction.NewService(extraction.NewHTTPFetcher(conf), cli.opener, threshold)

			res, err := svc.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("pretty") {
				pretty = isTerminalFunc(int(os.Stdout.Fd()))
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(res)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", cli.conf.Extractor.FetchTimeout, "download timeout, including the body")
	cmd.Flags().IntVar(&threshold, "ocr-threshold", cli.conf.Extractor.OCRThreshold, "pages with fewer characters are flagged as needing OCR")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output (default when stdout is a terminal)")
	return cmd
}

func (cli *commandLine) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pdfx %s\n", cli.conf.Build)
		},
	}
}
