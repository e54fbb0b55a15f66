package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newExecCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run one console command and exit",
		Long: "Run a single console command, as if typed at the prompt, then exit.\n" +
			"The arguments are joined with spaces, so quote values that need\n" +
			"their quotes kept: hbnb exec update User <id> name '\"Bob\"'",
		Example: "  hbnb exec create User\n  hbnb exec 'User.count()'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, f)
			if err != nil {
				return err
			}
			defer sess.close()

			sess.console(cmd).Exec(strings.Join(args, " "))
			return nil
		},
	}
	// Everything after the command word belongs to the console line.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
