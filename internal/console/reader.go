package console

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// StreamReader reads lines from a plain stream without echoing a prompt.
// It is used when input is not a terminal. Lines have no length limit.
type StreamReader struct {
	r   *bufio.Reader
	eof bool
}

// NewStreamReader returns a LineReader over r.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line ending, ignoring the
// prompt. A final line with no newline is returned before io.EOF.
func (r *StreamReader) ReadLine(string) (string, error) {
	if r.eof {
		return "", io.EOF
	}
	line, err := r.r.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
		r.eof = true
		if line == "" {
			return "", io.EOF
		}
	case err != nil:
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// LinerReader reads lines from a terminal with line editing, tab completion
// and a persistent history file.
type LinerReader struct {
	line        *liner.State
	historyPath string
	logger      *slog.Logger
}

// NewLinerReader takes over the terminal. An empty historyPath disables
// history persistence. Close must be called to restore the terminal.
func NewLinerReader(historyPath string, logger *slog.Logger) *LinerReader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				logger.Warn("read history", "path", historyPath, "err", err)
			}
			f.Close()
		}
	}
	return &LinerReader{line: line, historyPath: historyPath, logger: logger}
}

// ReadLine prompts for a line. Ctrl-C ends input like Ctrl-D.
func (r *LinerReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close writes the history file and restores the terminal.
func (r *LinerReader) Close() error {
	if r.historyPath != "" {
		if err := r.writeHistory(); err != nil {
			r.logger.Warn("write history", "path", r.historyPath, "err", err)
		}
	}
	return r.line.Close()
}

func (r *LinerReader) writeHistory() error {
	if err := os.MkdirAll(filepath.Dir(r.historyPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(r.historyPath)
	if err != nil {
		return err
	}
	if _, err := r.line.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// complete returns the lines formed by extending the last word of line with
// a command word, a kind, or a "Kind.verb(" form.
func complete(line string) []string {
	head, last := "", line
	if i := strings.LastIndexByte(line, ' '); i >= 0 {
		head, last = line[:i+1], line[i+1:]
	}
	var out []string
	for _, word := range completionWords() {
		if strings.HasPrefix(word, last) {
			out = append(out, head+word)
		}
	}
	return out
}

func completionWords() []string {
	words := []string{"help", "quit"}
	for name := range canonicalVerbs {
		words = append(words, name)
	}
	for _, kind := range types.Kinds() {
		words = append(words, string(kind))
		for name := range sugarVerbs {
			words = append(words, string(kind)+"."+name+"(")
		}
	}
	sort.Strings(words)
	return words
}
