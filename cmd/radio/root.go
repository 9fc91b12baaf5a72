package main

import (
	"github.com/spf13/cobra"

	"github.com/dabradio/dabradio/internal/logging"
)

var logLevel string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "radio",
		Short: "DAB/DAB+ software-defined receiver",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", logging.LevelInfo, "log level: debug, info, warn, error")

	root.AddCommand(newRunCommand())
	root.AddCommand(newDevicesCommand())
	return root
}
