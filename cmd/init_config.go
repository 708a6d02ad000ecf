package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autonav/internal/storage"
)

var initForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a starter settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.WriteStub(configPath, initForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

func init() {
	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing settings file")
}
