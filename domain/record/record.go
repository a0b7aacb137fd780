// Package record provides the ordered JSON object that flows through the
// batch pipeline. A Record preserves the key order and raw value bytes of
// the input line it was decoded from, so re-encoding an untouched record
// reproduces its fields verbatim.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decode and field-extraction failure conditions.
var (
	ErrNotObject    = errors.New("record: line is not a JSON object")
	ErrTrailingData = errors.New("record: trailing data after JSON object")
	ErrFieldMissing = errors.New("record: field missing")
	ErrFieldInvalid = errors.New("record: field is not a non-empty string")
)

// Record is an ordered mapping of string keys to raw JSON values.
// The zero value is an empty record. Records are value types; Set
// returns a copy and never mutates its receiver.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// Decode parses one input line into a Record. The line must contain a
// single JSON object and nothing else. Key order is preserved; if a key
// occurs more than once the last value wins but the first position is
// kept.
func Decode(line []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))

	tok, err := dec.Token()
	if err != nil {
		return Record{}, fmt.Errorf("record: decode: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Record{}, ErrNotObject
	}

	r := Record{values: make(map[string]json.RawMessage)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Record{}, fmt.Errorf("record: decode key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			// Cannot happen inside an object per the JSON grammar.
			return Record{}, ErrNotObject
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Record{}, fmt.Errorf("record: decode value for %q: %w", key, err)
		}
		if _, dup := r.values[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return Record{}, fmt.Errorf("record: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Record{}, ErrTrailingData
	}

	return r, nil
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.keys) }

// Keys returns the field names in their original order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Has reports whether the record carries the given field.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Value returns the raw JSON bytes of a field.
func (r Record) Value(key string) (json.RawMessage, bool) {
	raw, ok := r.values[key]
	return raw, ok
}

// Text returns the string under the given field. It fails with
// ErrFieldMissing when the field is absent and ErrFieldInvalid when the
// value is not a string or is empty after trimming whitespace. The
// returned string is not trimmed.
func (r Record) Text(field string) (string, error) {
	raw, ok := r.values[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrFieldMissing, field)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrFieldInvalid, field)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %q", ErrFieldInvalid, field)
	}
	return s, nil
}

// Set returns a copy of the record with the given field set. A new key
// is appended after the existing fields; an existing key keeps its
// position and gets the new value. The receiver is left untouched.
func (r Record) Set(key string, value any) (Record, error) {
	raw, err := marshalRaw(value)
	if err != nil {
		return Record{}, err
	}

	clone := Record{
		keys:   make([]string, len(r.keys), len(r.keys)+1),
		values: make(map[string]json.RawMessage, len(r.values)+1),
	}
	copy(clone.keys, r.keys)
	for k, v := range r.values {
		clone.values[k] = v
	}

	if _, ok := clone.values[key]; !ok {
		clone.keys = append(clone.keys, key)
	}
	clone.values[key] = raw
	return clone, nil
}

// Encode serializes the record as a single-line JSON object with stable
// key order. Non-ASCII runes are written verbatim and HTML characters
// are not escaped, matching the line-delimited output contract.
func (r Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalRaw(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(r.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw marshals a value without HTML escaping so UTF-8 text
// survives the round trip byte for byte.
func marshalRaw(value any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("record: marshal value: %w", err)
	}
	// Encode appends a newline the record must not carry.
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
