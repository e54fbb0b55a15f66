package console

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// kind validates the command's kind, printing the class diagnostics.
func (c *Console) kind(cmd Command) (types.Kind, bool) {
	if cmd.Kind == "" {
		c.println(msgClassMissing)
		return "", false
	}
	kind, err := types.ParseKind(cmd.Kind)
	if err != nil {
		c.println(msgClassUnknown)
		return "", false
	}
	return kind, true
}

// lookup resolves the first argument to a stored entity of kind, printing
// the id diagnostics. A missing or falsy id is "missing"; an id that is not a
// string cannot name any entity.
func (c *Console) lookup(kind types.Kind, cmd Command) (*types.Entity, bool) {
	if len(cmd.Args) == 0 || !truthy(cmd.Args[0]) {
		c.println(msgIDMissing)
		return nil, false
	}
	id, ok := cmd.Args[0].(string)
	if !ok {
		c.println(msgNotFound)
		return nil, false
	}
	e, ok := c.store.All()[types.Key(kind, id)]
	if !ok {
		c.println(msgNotFound)
		return nil, false
	}
	return e, true
}

// save persists the table, reporting failure without ending the session.
func (c *Console) save() {
	if err := c.store.Save(); err != nil {
		c.logger.Error("save failed", "err", err)
		c.println("** save failed: " + err.Error() + " **")
	}
}

func (c *Console) create(cmd Command) {
	kind, ok := c.kind(cmd)
	if !ok {
		return
	}
	e, err := types.NewEntity(kind)
	if err != nil {
		c.println(msgClassUnknown)
		return
	}
	if err := c.store.Register(e); err != nil {
		c.logger.Error("register failed", "kind", kind, "err", err)
		return
	}
	c.save()
	c.println(e.ID)
}

func (c *Console) show(cmd Command) {
	kind, ok := c.kind(cmd)
	if !ok {
		return
	}
	e, ok := c.lookup(kind, cmd)
	if !ok {
		return
	}
	c.println(e.String())
}

func (c *Console) destroy(cmd Command) {
	kind, ok := c.kind(cmd)
	if !ok {
		return
	}
	e, ok := c.lookup(kind, cmd)
	if !ok {
		return
	}
	delete(c.store.All(), e.Key())
	c.save()
}

// all prints every entity, or those whose key starts with the kind name. An
// unknown kind matches nothing.
func (c *Console) all(cmd Command) {
	var matched []*types.Entity
	if cmd.Kind == "" {
		matched = c.matching("")
	} else if kind, err := types.ParseKind(cmd.Kind); err == nil {
		matched = c.matching(string(kind))
	}

	items := make([]string, len(matched))
	for i, e := range matched {
		items[i] = e.String()
	}
	c.println(formatList(items))
}

func (c *Console) count(cmd Command) {
	kind, ok := c.kind(cmd)
	if !ok {
		return
	}
	c.println(strconv.Itoa(len(c.matching(string(kind)))))
}

// matching returns the entities whose key starts with prefix, oldest first.
func (c *Console) matching(prefix string) []*types.Entity {
	var out []*types.Entity
	for key, e := range c.store.All() {
		if strings.HasPrefix(key, prefix) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

func (c *Console) update(cmd Command) {
	kind, ok := c.kind(cmd)
	if !ok {
		return
	}
	e, ok := c.lookup(kind, cmd)
	if !ok {
		return
	}
	if cmd.Sugar {
		c.updateFields(e, cmd)
		return
	}

	if len(cmd.Args) < 2 {
		c.println(msgAttrMissing)
		return
	}
	if len(cmd.Args) < 3 {
		c.println(msgValueMissing)
		return
	}
	name, _ := cmd.Args[1].(string)
	raw, _ := cmd.Args[2].(string)
	if !c.set(e, name, parseValue(raw)) {
		return
	}
	e.Touch()
	c.save()
}

// updateFields applies a method-call update. It changes the entity in memory
// only: UpdatedAt is left alone and nothing is saved.
func (c *Console) updateFields(e *types.Entity, cmd Command) {
	if cmd.Fields != nil {
		for _, f := range cmd.Fields {
			c.set(e, f.Name, f.Value)
		}
		return
	}
	if len(cmd.Args) < 2 {
		c.println(msgAttrMissing)
		return
	}
	if len(cmd.Args) == 2 {
		c.println(msgValueMissing)
		return
	}
	name, ok := cmd.Args[1].(string)
	if !ok || name == "" {
		c.println(msgAttrMissing)
		return
	}
	v, ok := cmd.Args[2].(types.Value)
	if !ok {
		c.println(msgValueMissing)
		return
	}
	c.set(e, name, v)
}

func (c *Console) set(e *types.Entity, name string, v types.Value) bool {
	err := e.SetField(name, v)
	if errors.Is(err, types.ErrReservedField) {
		c.println(msgAttrReadOnly)
		return false
	}
	return err == nil
}

// parseValue converts the raw text of a canonical update. Text containing a
// dot is tried as a decimal float, anything else as a decimal integer.
// Single underscores between digits are allowed as separators. Text that is
// neither becomes a string with one pair of matching surrounding quotes
// removed.
func parseValue(raw string) types.Value {
	text := strings.TrimSpace(raw)
	digits, ok := stripDigitSeparators(text)
	switch {
	case !ok:
	case strings.Contains(text, "."):
		if strings.ContainsFunc(digits, notDecimal) {
			break
		}
		if f, err := strconv.ParseFloat(digits, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return types.FloatValue(f)
		}
	default:
		if i, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return types.IntValue(i)
		}
	}
	return types.StringValue(unquote(raw))
}

// stripDigitSeparators removes underscores from s. It reports false when an
// underscore is not between two digits.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// notDecimal rejects the hex, infinity and NaN forms strconv also accepts.
func notDecimal(r rune) bool { return !strings.ContainsRune("0123456789+-.eE", r) }

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// formatList renders items as a bracketed, comma-separated list of quoted
// strings.
func formatList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = types.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
