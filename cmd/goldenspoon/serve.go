package main

import (
	"time"

	"github.com/spf13/cobra"

	"goldenspoon/internal/server"
	"goldenspoon/internal/session"
)

func serveCmd(cfgPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *cfgPath, devices{consoleLog: true})
			if err != nil {
				return err
			}
			defer a.log.Sync() //nolint:errcheck

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv, err := server.New(server.Config{
				Assistant:       a.assistant,
				Sessions:        session.NewRepository(time.Duration(a.cfg.Server.SessionTTLMins) * time.Minute),
				Synthesizer:     a.synth,
				Gatherer:        a.registry,
				Logger:          a.log,
				DefaultLanguage: a.language,
			})
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr)")
	return cmd
}
