package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chksum-rs/writer/version"
)

var (
	algorithm   string
	output      string
	showVersion bool
)

func init() {
	rootCmd.Flags().StringVarP(&algorithm, "algorithm", "a", digest.Canonical.String(), "digest algorithm to use")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "copy the input to this file while digesting")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show the version and exit")
}

// rootCmd digests the named files, or stdin when none are given, streaming
// each through a digesting writer so the data is read exactly once.
var rootCmd = &cobra.Command{
	Use:          "chksum [flags] [file ...]",
	Short:        "Compute digests of files while streaming them",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			version.PrintVersion()
			return nil
		}

		if output != "" && len(args) > 1 {
			return fmt.Errorf("--output accepts a single input, got %d", len(args))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if len(args) == 0 {
			return digestStdin(ctx)
		}

		for _, path := range args {
			if err := digestFile(ctx, path); err != nil {
				return err
			}
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("chksum failed")
	}
}
