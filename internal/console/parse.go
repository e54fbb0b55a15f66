package console

import (
	"errors"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// errUnknownSyntax reports a method-call line that does not have the shape
// Kind.verb(literal).
var errUnknownSyntax = errors.New("unknown syntax")

// splitCommand splits a trimmed line into its leading command word (ASCII
// letters, digits and underscores) and the trimmed remainder.
func splitCommand(line string) (word, rest string) {
	i := 0
	for i < len(line) && isIdentByte(line[i]) {
		i++
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9'
}

// splitArgs splits s on whitespace into at most n tokens, followed by the
// trimmed remainder as one final element when anything is left over.
func splitArgs(s string, n int) []string {
	var out []string
	s = strings.TrimSpace(s)
	for s != "" && len(out) < n {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return append(out, s)
		}
		out = append(out, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// parseCanonical builds a command from "verb kind id attribute value". The
// value is everything after the attribute, so it may contain spaces.
func parseCanonical(verb Verb, rest string) Command {
	cmd := Command{Verb: verb}
	tokens := splitArgs(rest, 3)
	if len(tokens) == 0 {
		return cmd
	}
	cmd.Kind = tokens[0]
	for _, tok := range tokens[1:] {
		cmd.Args = append(cmd.Args, tok)
	}
	return cmd
}

// parseSugar builds a command from the text that follows a kind name:
// ".verb(literal)". It fails with errUnknownSyntax when the leading dot or
// either parenthesis is missing, the verb is not known, or the argument
// text is not an accepted literal.
//
// A tuple literal becomes the positional arguments; any other literal is the
// single argument. For update, a mapping in second position becomes the
// bulk Fields and a third-position value is converted to a types.Value.
func parseSugar(kind types.Kind, rest string) (Command, error) {
	if !strings.HasPrefix(rest, ".") || !strings.Contains(rest, "(") || !strings.Contains(rest, ")") {
		return Command{}, errUnknownSyntax
	}
	name, args, _ := strings.Cut(rest[1:], "(")
	verb, ok := sugarVerbs[name]
	if !ok {
		return Command{}, errUnknownSyntax
	}
	lit, err := parseLiteral("(" + args)
	if err != nil {
		return Command{}, errUnknownSyntax
	}

	cmd := Command{Verb: verb, Kind: string(kind), Sugar: true}
	if items, ok := lit.(tuple); ok {
		cmd.Args = []any(items)
	} else {
		cmd.Args = []any{lit}
	}

	if verb == VerbUpdate && len(cmd.Args) >= 2 {
		if m, ok := cmd.Args[1].(mapping); ok {
			// A non-nil Fields marks a bulk update, even when empty.
			cmd.Fields = append(make([]Field, 0, len(m)), m...)
			cmd.Args = cmd.Args[:1]
			return cmd, nil
		}
		if len(cmd.Args) >= 3 {
			v, err := types.ValueOf(cmd.Args[2])
			if err != nil {
				return Command{}, errUnknownSyntax
			}
			cmd.Args[2] = v
		}
	}
	return cmd, nil
}
