package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize hbnb configuration and storage",
		Long:  "Create the configuration directory and config.yaml if missing, then create an empty document if none exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, f)
		},
	}
}

func runInit(cmd *cobra.Command, f *rootFlags) error {
	sess, err := openSession(cmd, f)
	if err != nil {
		return err
	}
	defer sess.close()

	path := sess.store.Path()
	_, err = os.Stat(path)
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "hbnb already initialized: %s\n", path)
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return sysError("stat document: %w", err)
	}

	if err := sess.store.Save(); err != nil {
		return sysError("initialize storage: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "hbnb initialized: %s\n", path)
	return nil
}
