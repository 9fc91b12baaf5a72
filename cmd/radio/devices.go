package main

import (
	"github.com/spf13/cobra"

	"github.com/dabradio/dabradio/internal/audio"
)

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := audio.Init(); err != nil {
				return err
			}
			defer audio.Terminate()
			return audio.PrintDevices()
		},
	}
}
