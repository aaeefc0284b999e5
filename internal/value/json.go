package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SyntaxError describes malformed JSON input. Offset is the byte offset
// at which the problem was detected.
type SyntaxError struct {
	Offset  int64
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
}

// Decode parses a single JSON document into a Value.
// Object key order is preserved and numbers keep their literal text.
// Trailing non-whitespace data after the document is an error.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, toSyntaxError(dec, err)
		}
		return nil, &SyntaxError{Offset: dec.InputOffset(), Message: "unexpected data after top-level value"}
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, toSyntaxError(dec, err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, &SyntaxError{Offset: dec.InputOffset(), Message: fmt.Sprintf("unexpected delimiter %q", t)}
		}
	case string:
		return String(t), nil
	case json.Number:
		n, err := NewNumber(string(t))
		if err != nil {
			return nil, &SyntaxError{Offset: dec.InputOffset(), Message: err.Error()}
		}
		return n, nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, &SyntaxError{Offset: dec.InputOffset(), Message: fmt.Sprintf("unsupported token %T", tok)}
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	m := NewMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, toSyntaxError(dec, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &SyntaxError{Offset: dec.InputOffset(), Message: "object key must be a string"}
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, toSyntaxError(dec, err)
	}
	return m, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := List{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, toSyntaxError(dec, err)
	}
	return arr, nil
}

func toSyntaxError(dec *json.Decoder, err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Offset: se.Offset, Message: se.Error()}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Offset: dec.InputOffset(), Message: "unexpected end of JSON input"}
	}
	return &SyntaxError{Offset: dec.InputOffset(), Message: err.Error()}
}

// Marshal encodes v as compact JSON. Map keys keep insertion order and
// HTML characters are not escaped.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but applies json.Indent formatting.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON implements json.Marshaler for Number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// MarshalJSON implements json.Marshaler for List.
func (l List) MarshalJSON() ([]byte, error) {
	return Marshal(l)
}

// MarshalJSON implements json.Marshaler for Map with insertion-ordered keys.
func (m *Map) MarshalJSON() ([]byte, error) {
	return Marshal(m)
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case String:
		return writeJSONString(buf, string(val))
	case Number:
		buf.WriteString(val.String())
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case List:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case *Map:
		buf.WriteByte('{')
		for i, e := range val.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, e.Key); err != nil {
				return fmt.Errorf("key %q: %w", e.Key, err)
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, e.Value); err != nil {
				return fmt.Errorf("value for key %q: %w", e.Key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown Value type: %T", v)
	}
	return nil
}

// writeJSONString encodes s with HTML escaping disabled.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// json.Encoder adds trailing newline, remove it
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
