// Package logs builds the process logger: a text handler for the terminal,
// optionally fanned out to a JSON log file and the systemd journal.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// DefaultLevel is used when Options.Level is empty.
const DefaultLevel = slog.LevelWarn

// Options selects the log destinations.
type Options struct {
	Level   string    // debug, info, warn or error
	Stderr  io.Writer // text output; nil disables it
	File    string    // JSON lines file, appended to; empty disables it
	Journal bool      // also send records to the systemd journal
}

// New returns a logger writing to every destination in opts. The returned
// close function releases the log file and is safe to call when there is
// none.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	closeFn := func() error { return nil }

	var handlers []slog.Handler

	var terminalHandler slog.Handler
	if opts.Stderr != nil {
		terminalHandler = slog.NewTextHandler(opts.Stderr, handlerOpts)
		handlers = append(handlers, terminalHandler)
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, handlerOpts))
		closeFn = f.Close
	}

	if opts.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminalHandler != nil {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
				record.Add("err", err)
				_ = terminalHandler.Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	if len(handlers) == 0 {
		return slog.New(slog.DiscardHandler), closeFn, nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// ParseLevel maps a level name to a slog level. Empty means DefaultLevel.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return DefaultLevel, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

// toJournalKey upper-cases key and replaces everything outside A-Z and 0-9,
// as journald field names require.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}
