package types

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reserved record keys. They are managed by Entity itself and cannot be set
// through SetField.
const (
	FieldClass     = "__class__"
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

var reservedFields = map[string]bool{
	FieldClass:     true,
	FieldID:        true,
	FieldCreatedAt: true,
	FieldUpdatedAt: true,
}

// TimeLayout is the textual timestamp form used in records and string forms.
// Timestamps are kept in UTC at microsecond resolution.
const TimeLayout = "2006-01-02T15:04:05.000000"

// clock hands out strictly increasing timestamps so that entities created
// back to back never share a creation time.
var clock = struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}{
	now: time.Now,
}

// Now returns the current UTC time truncated to microseconds, bumped forward
// when needed so that no two calls return the same instant.
func Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	t := clock.now().UTC().Truncate(time.Microsecond)
	if !t.After(clock.last) {
		t = clock.last.Add(time.Microsecond)
	}
	clock.last = t
	return t
}

// Entity is a typed record with identity, timestamps and an open set of
// scalar fields.
type Entity struct {
	ID        string    // UUID v7, generated on creation.
	Kind      Kind      // Entity kind; fixed for the entity's lifetime.
	CreatedAt time.Time // Set once at construction.
	UpdatedAt time.Time // Refreshed by Touch.

	fields map[string]Value
	order  []string // field names in assignment order
}

// NewEntity builds a fresh entity of the given kind with a new ID and both
// timestamps set to the same instant.
// Returns ErrUnknownKind if kind is not a known kind.
func NewEntity(kind Kind) (*Entity, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	now := Now()
	return &Entity{
		ID:        generateUUID(),
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
		fields:    make(map[string]Value),
	}, nil
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// Key returns the storage key "Kind.ID".
func (e *Entity) Key() string {
	return Key(e.Kind, e.ID)
}

// Key builds the storage key for an entity of kind with the given id.
func Key(kind Kind, id string) string {
	return string(kind) + "." + id
}

// SetField assigns value to the named field. The assignment order of new
// names is kept for the string form. Does not touch UpdatedAt.
// Returns ErrReservedField for id, timestamps and the class tag.
func (e *Entity) SetField(name string, value Value) error {
	if reservedFields[name] {
		return ErrReservedField
	}
	if e.fields == nil {
		e.fields = make(map[string]Value)
	}
	if _, ok := e.fields[name]; !ok {
		e.order = append(e.order, name)
	}
	e.fields[name] = value
	return nil
}

// Field returns the value of the named field and whether it is set.
func (e *Entity) Field(name string) (Value, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// FieldNames returns the names of the open fields in assignment order.
func (e *Entity) FieldNames() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Touch refreshes UpdatedAt.
func (e *Entity) Touch() {
	e.UpdatedAt = Now()
}

// String renders the entity as "[Kind] (id) {'id': ..., ...}".
func (e *Entity) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Kind))
	b.WriteString("] (")
	b.WriteString(e.ID)
	b.WriteString(") {")
	b.WriteString(Quote(FieldID) + ": " + Quote(e.ID))
	b.WriteString(", " + Quote(FieldCreatedAt) + ": " + Quote(FormatTime(e.CreatedAt)))
	b.WriteString(", " + Quote(FieldUpdatedAt) + ": " + Quote(FormatTime(e.UpdatedAt)))
	for _, name := range e.order {
		b.WriteString(", " + Quote(name) + ": " + e.fields[name].Repr())
	}
	b.WriteString("}")
	return b.String()
}

// ToRecord returns the entity as a flat record: the class tag, id,
// timestamps as text, and every field's Go value.
func (e *Entity) ToRecord() map[string]any {
	rec := make(map[string]any, len(e.fields)+4)
	for name, v := range e.fields {
		rec[name] = v.Any()
	}
	rec[FieldClass] = string(e.Kind)
	rec[FieldID] = e.ID
	rec[FieldCreatedAt] = FormatTime(e.CreatedAt)
	rec[FieldUpdatedAt] = FormatTime(e.UpdatedAt)
	return rec
}

// FromRecord rebuilds an entity from a record produced by ToRecord, picking
// the kind from the class tag. Open fields are restored in name order.
func FromRecord(rec map[string]any) (*Entity, error) {
	return FromOrderedRecord(rec, nil)
}

// FromOrderedRecord is FromRecord with open fields restored in the order
// their names appear in order. Fields missing from order follow in name
// order.
func FromOrderedRecord(rec map[string]any, order []string) (*Entity, error) {
	class, _ := rec[FieldClass].(string)
	kind, err := ParseKind(class)
	if err != nil {
		return nil, err
	}

	id, ok := rec[FieldID].(string)
	if !ok || id == "" {
		return nil, ErrInvalidID
	}

	createdAt, err := timeField(rec, FieldCreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := timeField(rec, FieldUpdatedAt)
	if err != nil {
		return nil, err
	}

	e := &Entity{
		ID:        id,
		Kind:      kind,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		fields:    make(map[string]Value),
	}

	seen := make(map[string]bool, len(rec))
	names := make([]string, 0, len(rec))
	for _, name := range order {
		if _, ok := rec[name]; ok && !reservedFields[name] && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range rec {
		if !reservedFields[name] && !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)
	for _, name := range names {
		v, err := ValueOf(rec[name])
		if err != nil {
			return nil, ErrInvalidRecord
		}
		e.fields[name] = v
		e.order = append(e.order, name)
	}
	return e, nil
}

// timeField reads a required, non-empty timestamp string from rec.
func timeField(rec map[string]any, name string) (time.Time, error) {
	s, ok := rec[name].(string)
	if !ok || s == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	return ParseTime(s)
}

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses an ISO-8601 timestamp with or without a fractional part
// and with or without a zone offset. Text without an offset is read as UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return t.UTC(), nil
}
