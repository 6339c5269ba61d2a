package mockdata

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"github.com/erraggy/smithygen/parser"
)

// Kind is the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTimestamp
	KindBlob
	KindEnum
	KindStruct
	KindList
	KindMap
)

// Value is a synthesized instance. It renders both as a Go composite
// literal and as JSON.
type Value struct {
	Kind Kind
	// Shape is the shape the value instantiates: a prelude id for
	// primitives, otherwise the simple type, enum, structure, list or map.
	Shape parser.ShapeID
	// Primitive is the underlying kind of scalar values.
	Primitive parser.SimpleKind

	Str   string
	Int   int64
	Float float64
	Bool  bool

	// EnumMember is the chosen member name of an enum value.
	EnumMember string

	Fields  []Field
	Items   []*Value
	Entries []Entry
}

// Field is a populated structure member.
type Field struct {
	Member *parser.Member
	Value  *Value
}

// Entry is one key/value pair of a map value.
type Entry struct {
	Key   *Value
	Value *Value
}

// Field returns the value of the member called name.
func (v *Value) Field(name string) (*Value, bool) {
	for _, f := range v.Fields {
		if f.Member.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// JSONName returns the serialized name of a member.
func JSONName(m *parser.Member) string {
	if name, ok := m.Traits.JSONName(); ok {
		return name
	}
	return m.Name
}

// MarshalJSON renders the value, keeping structure fields in declaration
// order. Timestamps render as the current time.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf, time.Now().UTC()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer, now time.Time) error {
	switch v.Kind {
	case KindString:
		return writeJSONString(buf, v.Str)
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		buf.WriteString(strconv.FormatFloat(v.Float, 'f', -1, 64))
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindTimestamp:
		return writeJSONString(buf, now.Format(time.RFC3339))
	case KindBlob:
		return writeJSONString(buf, base64.StdEncoding.EncodeToString([]byte(v.Str)))
	case KindEnum:
		if v.Str == "" {
			buf.WriteString(strconv.FormatInt(v.Int, 10))
			return nil
		}
		return writeJSONString(buf, v.Str)
	case KindStruct:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, JSONName(f.Member)); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf, now); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf, now); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, e.Key.Str); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := e.Value.writeJSON(buf, now); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
