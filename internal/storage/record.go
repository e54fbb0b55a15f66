package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// encodeRecord renders an entity's record as a JSON object: id, timestamps,
// open fields in assignment order, then the class tag. Floats are written
// with FormatFloat so that integral values keep a decimal point and read
// back as floats.
func encodeRecord(e *types.Entity) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	put := func(name string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if f, ok := v.(float64); ok {
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return fmt.Errorf("field %q: %w", name, types.ErrTypeMismatch)
			}
			buf.WriteString(types.FormatFloat(f))
			return nil
		}
		val, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		buf.Write(val)
		return nil
	}

	if err := put(types.FieldID, e.ID); err != nil {
		return nil, err
	}
	if err := put(types.FieldCreatedAt, types.FormatTime(e.CreatedAt)); err != nil {
		return nil, err
	}
	if err := put(types.FieldUpdatedAt, types.FormatTime(e.UpdatedAt)); err != nil {
		return nil, err
	}
	for _, name := range e.FieldNames() {
		v, _ := e.Field(name)
		if err := put(name, v.Any()); err != nil {
			return nil, err
		}
	}
	if err := put(types.FieldClass, string(e.Kind)); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeRecord parses one JSON record and returns it with its keys in
// document order. Numbers with a decimal point or an exponent become
// float64; other numbers become int64. A repeated key keeps its first
// position and its last value.
func decodeRecord(raw []byte) (map[string]any, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, types.ErrInvalidRecord
	}

	rec := make(map[string]any)
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, types.ErrInvalidRecord
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if n, ok := v.(json.Number); ok {
			if v, err = numberValue(n); err != nil {
				return nil, nil, fmt.Errorf("field %q: %w", key, err)
			}
		}
		if _, dup := rec[key]; !dup {
			order = append(order, key)
		}
		rec[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return rec, order, nil
}

func numberValue(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	return n.Float64()
}
