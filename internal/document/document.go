// Package document provides the typed intermediate form of a model document.
//
// A document is decoded once into a tree of Values, a tagged union over the
// JSON value kinds. Object fields keep their document order and every value
// remembers its source line and column. JSON and YAML input are both accepted
// because JSON is a subset of YAML.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// Null is an explicit null (or an empty document).
	Null Kind = iota
	// Bool is true or false.
	Bool
	// Number is an integer or floating-point literal.
	Number
	// String is a text scalar.
	String
	// Array is an ordered list of values.
	Array
	// Object is an ordered list of key/value fields.
	Object
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of a decoded document.
type Value struct {
	Kind Kind
	// Text holds the scalar text of Bool, Number and String values.
	Text string
	// Items holds the elements of an Array.
	Items []*Value
	// Fields holds the members of an Object in document order.
	Fields []Field
	// Line and Column are 1-based source positions (0 if unknown).
	Line   int
	Column int
}

// Field is one key/value pair of an Object.
type Field struct {
	Key    string
	Value  *Value
	Line   int
	Column int
}

// Decode parses JSON or YAML bytes into a Value tree.
func Decode(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return FromNode(&root)
}

// FromNode converts a yaml.Node tree into a Value tree.
func FromNode(n *yaml.Node) (*Value, error) {
	if n == nil {
		return &Value{Kind: Null}, nil
	}
	v := &Value{Line: n.Line, Column: n.Column}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return v, nil
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		return FromNode(n.Alias)
	case yaml.MappingNode:
		v.Kind = Object
		v.Fields = make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: object keys must be scalars", key.Line)
			}
			child, err := FromNode(val)
			if err != nil {
				return nil, err
			}
			v.Fields = append(v.Fields, Field{Key: key.Value, Value: child, Line: key.Line, Column: key.Column})
		}
	case yaml.SequenceNode:
		v.Kind = Array
		v.Items = make([]*Value, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := FromNode(item)
			if err != nil {
				return nil, err
			}
			v.Items = append(v.Items, child)
		}
	case yaml.ScalarNode:
		v.Text = n.Value
		switch n.ShortTag() {
		case "!!null":
			v.Kind = Null
		case "!!bool":
			v.Kind = Bool
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				// YAML 1.1 spellings such as "yes" are not JSON booleans.
				v.Kind = String
			} else {
				v.Text = strconv.FormatBool(b)
			}
		case "!!int", "!!float":
			v.Kind = Number
		default:
			v.Kind = String
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %v", n.Line, n.Kind)
	}
	return v, nil
}

// Get returns the value of field key, or nil when v is not an Object or lacks the key.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Object {
		return nil
	}
	for i := range v.Fields {
		if v.Fields[i].Key == key {
			return v.Fields[i].Value
		}
	}
	return nil
}

// Str returns the text of a String value.
func (v *Value) Str() (string, bool) {
	if v == nil || v.Kind != String {
		return "", false
	}
	return v.Text, true
}

// Boolean returns the value of a Bool.
func (v *Value) Boolean() (bool, bool) {
	if v == nil || v.Kind != Bool {
		return false, false
	}
	return v.Text == "true", true
}

// Int returns the value of an integral Number.
func (v *Value) Int() (int64, bool) {
	if v == nil || v.Kind != Number {
		return 0, false
	}
	i, err := strconv.ParseInt(v.Text, 0, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// IsNull reports whether v is absent or an explicit null.
func (v *Value) IsNull() bool {
	return v == nil || v.Kind == Null
}

// JSON serializes v as compact JSON, preserving object field order.
func (v *Value) JSON() json.RawMessage {
	var buf bytes.Buffer
	v.writeJSON(&buf)
	return buf.Bytes()
}

func (v *Value) writeJSON(buf *bytes.Buffer) {
	if v == nil {
		buf.WriteString("null")
		return
	}
	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(v.Text)
	case Number:
		if json.Valid([]byte(v.Text)) {
			buf.WriteString(v.Text)
		} else {
			// YAML numbers such as 0x1F or .inf have no JSON spelling.
			writeString(buf, v.Text)
		}
	case String:
		writeString(buf, v.Text)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.writeJSON(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, f.Key)
			buf.WriteByte(':')
			f.Value.writeJSON(buf)
		}
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
