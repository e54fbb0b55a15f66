// Package cli implements the hbnb command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/logs"
	"github.com/mesh-intelligence/hbnb/internal/storage"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	file      string
	backend   string
	logLevel  string
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "hbnb" command with global flags and all
// subcommands registered. Run without a subcommand it starts the console.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "hbnb",
		Short: "Interactive console for hbnb entities",
		Long: "hbnb manages users, places, cities, states, amenities and reviews\n" +
			"stored in a single document. Without a subcommand it reads console\n" +
			"commands from standard input.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, f)
		},
	}

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $HBNB_CONFIG_DIR)")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory (default: data_dir from config.yaml, $HBNB_DATA_DIR, or the working directory)")
	root.PersistentFlags().StringVar(&f.file, "file", "", "document path, overriding data_dir and file_name")
	root.PersistentFlags().StringVar(&f.backend, "backend", "", "document backend: json or sqlite")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newExecCmd(f))
	root.AddCommand(newInitCmd(f))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Stderr)
}

func run(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintf(stderr, "hbnb: %s\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// session is an opened store plus the logger and settings it was built from.
type session struct {
	settings settings
	store    *storage.FileStorage
	logger   *slog.Logger
	closeLog func() error
}

// openSession resolves settings, builds the logger and reloads the store.
func openSession(cmd *cobra.Command, f *rootFlags) (*session, error) {
	s, err := resolveSettings(f)
	if err != nil {
		return nil, sysError("load config: %w", err)
	}

	logger, closeLog, err := logs.New(logs.Options{
		Level:   s.LogLevel,
		Stderr:  cmd.ErrOrStderr(),
		File:    s.LogFile,
		Journal: s.LogJournal,
	})
	if err != nil {
		return nil, sysError("configure logging: %w", err)
	}

	store, err := storage.NewFileStorage(s.Storage, logger)
	if err != nil {
		closeLog()
		return nil, sysError("open storage: %w", err)
	}
	if s.FilePath != "" {
		store.SetPath(s.FilePath)
	}
	if err := store.Reload(); err != nil {
		logger.Error("reload failed", "path", store.Path(), "err", err)
		closeLog()
		return nil, sysError("load storage: %w", err)
	}
	logger.Debug("session opened", "config_dir", s.ConfigDir, "document", store.Path(), "objects", len(store.All()))

	return &session{settings: s, store: store, logger: logger, closeLog: closeLog}, nil
}

func (s *session) close() {
	if err := s.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "hbnb: closing log file: %s\n", err)
	}
}

func (s *session) console(cmd *cobra.Command) *console.Console {
	return console.New(s.store, console.Options{
		Out:    cmd.OutOrStdout(),
		Logger: s.logger,
		Prompt: s.settings.Prompt,
	})
}

// runConsole reads commands until quit or end of input. A terminal gets line
// editing and history; anything else is read line by line without a prompt.
func runConsole(cmd *cobra.Command, f *rootFlags) error {
	sess, err := openSession(cmd, f)
	if err != nil {
		return err
	}
	defer sess.close()

	con := sess.console(cmd)

	var reader console.LineReader
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		lr := console.NewLinerReader(sess.settings.historyPath(), sess.logger)
		defer lr.Close()
		reader = lr
	} else {
		reader = console.NewStreamReader(cmd.InOrStdin())
	}

	if err := con.Run(cmd.Context(), reader); err != nil {
		return sysError("console: %w", err)
	}
	return nil
}
