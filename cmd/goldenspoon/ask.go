package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/service"
	"goldenspoon/internal/session"
)

func askCmd(cfgPath *string) *cobra.Command {
	var (
		lang  string
		speak bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question, streaming the reply to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, *cfgPath, devices{speakers: speak})
			if err != nil {
				return err
			}
			defer a.log.Sync() //nolint:errcheck

			state := session.NewState("cli")
			state.SetLanguage(a.language)
			if lang != "" {
				l, ok := domain.ParseLanguage(lang)
				if !ok {
					return fmt.Errorf("%w: unsupported language %q", domain.ErrConfiguration, lang)
				}
				state.SetLanguage(l)
			}
			state.SubmitTyped(strings.Join(args, " "))

			res, err := answer(ctx, a.assistant, state, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if res.VoiceErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), domain.Notice(res.VoiceErr)) //nolint:errcheck
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "reply language: en or hi (defaults to assistant.language)")
	cmd.Flags().BoolVar(&speak, "speak", false, "also speak the answer")
	return cmd
}

type cycler interface {
	Cycle(ctx context.Context, state *session.State, hooks service.TurnHooks) (service.TurnResult, error)
}

// answer runs one turn and writes each new piece of the reply as it arrives.
func answer(ctx context.Context, a cycler, state *session.State, out io.Writer) (service.TurnResult, error) {
	printed := 0
	res, err := a.Cycle(ctx, state, service.TurnHooks{
		OnPartial: func(buffer string) {
			fmt.Fprint(out, buffer[printed:]) //nolint:errcheck
			printed = len(buffer)
		},
	})
	if printed > 0 {
		fmt.Fprintln(out) //nolint:errcheck
	}
	return res, err
}
