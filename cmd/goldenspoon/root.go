package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "goldenspoon",
		Short:        "Voice and text assistant for The Golden Spoon restaurant",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to YAML config file (uses ./config.yaml or ~/.config/goldenspoon/config.yaml if not provided)")

	root.AddCommand(chatCmd(&cfgPath), askCmd(&cfgPath), serveCmd(&cfgPath))
	return root
}
