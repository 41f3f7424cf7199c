package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <nick>",
		Short: "Join the relay as nick and chat",
		Long: "Lines starting with / are commands: /query <nick>, /close, /msg <nick> <text>,\n" +
			"/otr [debug|trust|init|finish], /quit. Other lines go to the focused query.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			out := cmd.OutOrStdout()
			chat, err := wire.StartChat(ctx, args[0], func(line string) { fmt.Fprintln(out, line) })
			if err != nil {
				return err
			}
			defer func() { _ = chat.Close() }()

			go func() {
				defer cancel()
				sc := bufio.NewScanner(os.Stdin)
				for sc.Scan() {
					line := sc.Text()
					if strings.TrimSpace(line) == "/quit" {
						return
					}
					if err := chat.Input(ctx, line); err != nil {
						wire.Log.WithError(err).Info("input dropped")
					}
				}
			}()

			return chat.Run(ctx)
		},
	}
}
