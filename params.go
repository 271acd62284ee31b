package qparams

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"time"
)

// Param is a single named value within Params
type Param struct {
	Key   string
	Value any
}

// Params is an ordered mapping - serialization follows the order of the params
//
// Params can be used at any depth (e.g. as the value of another Param) and can be
// decoded from yaml/json documents with key order preserved
type Params []Param

func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Get returns the value of the first param with the given key
func (p Params) Get(key string) (any, bool) {
	for _, pm := range p {
		if pm.Key == key {
			return pm.Value, true
		}
	}
	return nil, false
}

// ParamsFromYAML decodes a yaml (or json) mapping document into Params
//
// Nested mappings are decoded as Params, sequences as []any and scalars according to
// their yaml tags (unquoted yaml timestamps become time.Time)
func ParamsFromYAML(data []byte) (Params, error) {
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding params: %w", err)
	}
	return p, nil
}

func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	v, err := nodeValue(value)
	if err != nil {
		return err
	}
	switch vt := v.(type) {
	case Params:
		*p = vt
	case nil:
		*p = Params{}
	default:
		return fmt.Errorf("line %d: expected a mapping", value.Line)
	}
	return nil
}

func nodeValue(n *yaml.Node) (v any, err error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) > 0 {
			v, err = nodeValue(n.Content[0])
		}
	case yaml.AliasNode:
		v, err = nodeValue(n.Alias)
	case yaml.MappingNode:
		params := make(Params, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content) && err == nil; i += 2 {
			var pv any
			if pv, err = nodeValue(n.Content[i+1]); err == nil {
				params = append(params, Param{Key: n.Content[i].Value, Value: pv})
			}
		}
		v = params
	case yaml.SequenceNode:
		elems := make([]any, len(n.Content))
		for i := 0; i < len(n.Content) && err == nil; i++ {
			elems[i], err = nodeValue(n.Content[i])
		}
		v = elems
	case yaml.ScalarNode:
		v, err = scalarValue(n)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

const timestampTag = "!!timestamp"

func scalarValue(n *yaml.Node) (any, error) {
	if n.ShortTag() == timestampTag {
		// yaml.v3 only yields time.Time when decoding into a time.Time
		var t time.Time
		if err := n.Decode(&t); err == nil {
			return t, nil
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}
