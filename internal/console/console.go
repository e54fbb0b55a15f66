// Package console implements the hbnb command interpreter: it reads command
// lines, parses them in either the canonical "verb Kind id ..." form or the
// "Kind.verb(args)" form, and applies them to a storage table.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// DefaultPrompt is printed before each interactive line.
const DefaultPrompt = "(hbnb) "

// Diagnostics printed for user-input errors.
const (
	msgClassMissing  = "** class name missing **"
	msgClassUnknown  = "** class doesn't exist **"
	msgIDMissing     = "** instance id missing **"
	msgNotFound      = "** no instance found **"
	msgAttrMissing   = "** attribute name missing **"
	msgValueMissing  = "** value missing **"
	msgAttrReadOnly  = "** attribute can't be updated **"
	msgUnknownSyntax = "*** Unknown syntax: "
)

// Storage is the entity table the console works on.
type Storage interface {
	Register(obj any) error
	All() map[string]*types.Entity
	Save() error
}

// LineReader supplies input lines. ReadLine returns io.EOF at end of input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Options configures a Console.
type Options struct {
	Out    io.Writer    // command output; defaults to io.Discard
	Logger *slog.Logger // defaults to discarding
	Prompt string       // defaults to DefaultPrompt
}

// Console applies command lines to a storage table and prints results.
// It is not safe for concurrent use.
type Console struct {
	store    Storage
	out      io.Writer
	logger   *slog.Logger
	prompt   string
	handlers [numVerbs]func(Command)
}

// New returns a console over store.
func New(store Storage, opts Options) *Console {
	c := &Console{
		store:  store,
		out:    opts.Out,
		logger: opts.Logger,
		prompt: opts.Prompt,
	}
	if c.out == nil {
		c.out = io.Discard
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.logger = c.logger.With("component", "console")
	if c.prompt == "" {
		c.prompt = DefaultPrompt
	}

	c.handlers = [numVerbs]func(Command){
		VerbCreate:  c.create,
		VerbShow:    c.show,
		VerbDestroy: c.destroy,
		VerbAll:     c.all,
		VerbCount:   c.count,
		VerbUpdate:  c.update,
	}
	return c
}

// Prompt returns the interactive prompt.
func (c *Console) Prompt() string {
	return c.prompt
}

// Exec runs one command line and reports whether the session should stop.
// User-input errors are printed, never returned.
func (c *Console) Exec(line string) (stop bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	word, rest := splitCommand(line)

	switch word {
	case "quit":
		return true
	case "EOF":
		fmt.Fprintln(c.out)
		return true
	case "help":
		c.help(rest)
		return false
	}
	if strings.HasPrefix(line, "?") {
		c.help(strings.TrimSpace(line[1:]))
		return false
	}

	if verb, ok := canonicalVerbs[word]; ok {
		c.dispatch(parseCanonical(verb, rest))
		return false
	}
	if kind, err := types.ParseKind(word); err == nil {
		cmd, err := parseSugar(kind, rest)
		if err != nil {
			// Space between the kind and the call is dropped.
			c.println(msgUnknownSyntax + word + rest)
			return false
		}
		c.dispatch(cmd)
		return false
	}

	c.println(msgUnknownSyntax + line)
	return false
}

// Run reads lines from r and executes them until quit, EOF or end of input.
// The context is checked between lines.
func (c *Console) Run(ctx context.Context, r LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadLine(c.prompt)
		if errors.Is(err, io.EOF) {
			c.Exec("EOF")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if c.Exec(line) {
			return nil
		}
	}
}

func (c *Console) dispatch(cmd Command) {
	c.logger.Debug("dispatch", "verb", cmd.Verb.String(), "kind", cmd.Kind, "args", len(cmd.Args), "sugar", cmd.Sugar)
	c.handlers[cmd.Verb](cmd)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
