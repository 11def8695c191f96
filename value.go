package json5

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Object is a string-keyed map that preserves insertion order. Parse
// produces one for every JSON5 object so that member order, and with it
// comment reattachment, survives a round trip.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set adds or replaces key. A replaced key keeps its original position.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	i := slices.Index(o.keys, key)
	o.keys = slices.Delete(o.keys, i, i+1)
	return true
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// MarshalJSON writes the members in insertion order, which keeps JSON
// conversion faithful to the parsed document.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Variant is a tagged value. A nil Value serializes as the bare tag
// string; anything else serializes as the single-member object
// {Tag: Value}. Parsing never produces a Variant: the decoding side of
// the same convention is the VariantCursor.
type Variant struct {
	Tag   string
	Value any
}
