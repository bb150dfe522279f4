package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"goldenspoon/internal/session"
	"goldenspoon/internal/tui"
)

func chatCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the terminal chat with voice input and output (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, *cfgPath)
		},
	}
}

func runChat(cmd *cobra.Command, cfgPath string) error {
	ctx := cmd.Context()
	// stdout belongs to the UI, so logs only go to the file
	a, err := buildApp(ctx, cfgPath, devices{microphone: true, speakers: true})
	if err != nil {
		return err
	}
	defer a.log.Sync() //nolint:errcheck

	state := session.NewState("terminal")
	state.SetLanguage(a.language)
	m := tui.New(ctx, a.assistant, state, a.summary)
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}
