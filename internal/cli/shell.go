package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newShellCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands against one session lifetime",
		Long: `shell keeps a single session open across commands, the way a browser tab
does. Subscription validity and the integrity token only live this long.
Type "exit" or send EOF to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			fmt.Fprint(out, "vault> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
				case "exit", "quit":
					return nil
				default:
					sub := &cobra.Command{Use: "vault", SilenceUsage: true, SilenceErrors: true}
					addCommands(sub, func() *App { return a })
					sub.SetArgs(strings.Fields(line))
					// stdin belongs to the shell; pass secrets as flags here
					sub.SetIn(strings.NewReader(""))
					sub.SetOut(out)
					sub.SetErr(cmd.ErrOrStderr())
					if err := sub.ExecuteContext(cmd.Context()); err != nil && !errors.Is(err, errCommandFailed) {
						fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					}
				}
				fmt.Fprint(out, "vault> ")
			}
			return scanner.Err()
		},
	}
}
