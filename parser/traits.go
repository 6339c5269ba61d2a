package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Well-known traits interpreted by the generator.
const (
	TraitRequired      ShapeID = "smithy.api#required"
	TraitDocumentation ShapeID = "smithy.api#documentation"
	TraitError         ShapeID = "smithy.api#error"
	TraitPattern       ShapeID = "smithy.api#pattern"
	TraitHTTP          ShapeID = "smithy.api#http"
	TraitHTTPLabel     ShapeID = "smithy.api#httpLabel"
	TraitHTTPQuery     ShapeID = "smithy.api#httpQuery"
	TraitHTTPError     ShapeID = "smithy.api#httpError"
	TraitStreaming     ShapeID = "smithy.api#streaming"
	TraitEnumValue     ShapeID = "smithy.api#enumValue"
	TraitJSONName      ShapeID = "smithy.api#jsonName"
)

// Trait is an annotation with its payload kept as raw JSON.
type Trait struct {
	ID    ShapeID
	Value json.RawMessage
}

// TraitSet holds the traits of a shape or member in document order.
type TraitSet []Trait

// Get returns the trait with the given id.
func (ts TraitSet) Get(id ShapeID) (Trait, bool) {
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return Trait{}, false
}

// Has reports whether the trait is present.
func (ts TraitSet) Has(id ShapeID) bool {
	_, ok := ts.Get(id)
	return ok
}

// IDs returns the trait ids in document order.
func (ts TraitSet) IDs() []ShapeID {
	ids := make([]ShapeID, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}

// stringTrait decodes a trait whose payload is a JSON string.
func (ts TraitSet) stringTrait(id ShapeID) (string, bool) {
	t, ok := ts.Get(id)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(t.Value, &s); err != nil {
		return "", false
	}
	return s, true
}

// Required reports whether the required trait is present.
func (ts TraitSet) Required() bool {
	return ts.Has(TraitRequired)
}

// Documentation returns the documentation trait text, or "".
func (ts TraitSet) Documentation() string {
	s, _ := ts.stringTrait(TraitDocumentation)
	return s
}

// Pattern returns the pattern trait regular expression.
func (ts TraitSet) Pattern() (string, bool) {
	return ts.stringTrait(TraitPattern)
}

// ErrorFault returns "client" or "server" for structures carrying the error trait.
func (ts TraitSet) ErrorFault() (string, bool) {
	return ts.stringTrait(TraitError)
}

// HTTPLabel reports whether a member is bound to a URI label.
func (ts TraitSet) HTTPLabel() bool {
	return ts.Has(TraitHTTPLabel)
}

// HTTPQuery returns the query parameter name a member is bound to.
func (ts TraitSet) HTTPQuery() (string, bool) {
	return ts.stringTrait(TraitHTTPQuery)
}

// JSONName returns the serialized member name override.
func (ts TraitSet) JSONName() (string, bool) {
	return ts.stringTrait(TraitJSONName)
}

// Streaming reports whether the shape carries the streaming trait.
func (ts TraitSet) Streaming() bool {
	return ts.Has(TraitStreaming)
}

// HTTPStatus returns the httpError trait status code.
func (ts TraitSet) HTTPStatus() (int, bool) {
	t, ok := ts.Get(TraitHTTPError)
	if !ok {
		return 0, false
	}
	var code int
	if err := json.Unmarshal(t.Value, &code); err != nil {
		return 0, false
	}
	return code, true
}

// HTTPBinding is the payload of the http trait.
type HTTPBinding struct {
	Method string `json:"method"`
	URI    string `json:"uri"`
	Code   int    `json:"code,omitempty"`
}

// HTTP decodes the http trait. The boolean is false when the trait is absent.
func (ts TraitSet) HTTP() (*HTTPBinding, bool, error) {
	t, ok := ts.Get(TraitHTTP)
	if !ok {
		return nil, false, nil
	}
	var b HTTPBinding
	if err := json.Unmarshal(t.Value, &b); err != nil {
		return nil, true, fmt.Errorf("decoding %s: %w", TraitHTTP, err)
	}
	if b.Code == 0 {
		b.Code = 200
	}
	return &b, true, nil
}

// Labels returns the label names of the URI template in order.
// Greedy labels ({key+}) are returned without the '+'.
func (b *HTTPBinding) Labels() []string {
	var labels []string
	rest := b.URI
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return labels
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return labels
		}
		label := strings.TrimSuffix(rest[start+1:start+end], "+")
		labels = append(labels, label)
		rest = rest[start+end+1:]
	}
}

// Path returns the URI template without its query string.
func (b *HTTPBinding) Path() string {
	path, _, _ := strings.Cut(b.URI, "?")
	return path
}
