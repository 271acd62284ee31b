package qparams

import (
	"reflect"
	"strconv"
	"strings"
)

// Serialize serializes params into a query string
//
// params is normally a Params, a map (entries in key order) or a struct (see `query` tags) - nil
// (or any other non-mapping value) yields an empty query string. A top-level struct or map is
// always serialized by its entries, even if it implements fmt.Stringer (nested Stringer values
// are written as leaves using String())
//
// Without options, arrays repeat their key, nested mappings use bracket notation, nil and empty
// string values are written as bare "key=" and all keys & values are encoded using Escape
func Serialize(params any, options ...Option) string {
	s := &serializer{
		opts: NewOptions(options...),
	}
	if kind, v := classifyTopLevel(params); kind == kindMapping {
		for _, p := range entries(v) {
			s.serializeKey(p.Key, p.Value, "")
		}
	}
	return s.pairs.encode(s.opts.Sort, s.opts.AddQueryPrefix)
}

// classifyTopLevel is classify except that Stringer structs & maps are mappings
func classifyTopLevel(params any) (valueKind, any) {
	kind, v := classify(params)
	if kind == kindLeaf && v != nil && isStringer(v) {
		if rv := reflect.Indirect(reflect.ValueOf(v)); rv.Kind() == reflect.Struct || rv.Kind() == reflect.Map {
			return kindMapping, rv.Interface()
		}
	}
	return kind, v
}

type serializer struct {
	opts  Options
	pairs queryPairs
}

func (s *serializer) encode(str string) string {
	return s.opts.Encoder(str)
}

func (s *serializer) add(pair string) {
	s.pairs.add(pair)
}

func (s *serializer) serializeKey(key string, value any, prefix string) {
	kind, v := classify(value)
	switch kind {
	case kindNull:
		if !s.opts.SkipNull {
			s.add(s.encode(prefix+key) + "=")
		}
	case kindEmptyString:
		if !s.opts.SkipEmptyString {
			s.add(s.encode(prefix+key) + "=")
		}
	case kindSequence:
		s.serializeArray(key, elements(v), prefix)
	case kindMapping:
		s.serializeObject(key, entries(v), prefix)
	default:
		s.add(s.encode(prefix+key) + "=" + s.encode(s.formatValue(v)))
	}
}

func (s *serializer) serializeArray(key string, elems []any, prefix string) {
	switch s.opts.ArrayEncoding {
	case Bracket:
		for _, e := range elems {
			s.serializeKey(key+"[]", e, prefix)
		}
	case Index:
		for i, e := range elems {
			s.serializeKey(key+"["+strconv.Itoa(i)+"]", e, prefix)
		}
	case Comma:
		if len(elems) > 0 {
			var buf strings.Builder
			buf.WriteString(s.encode(prefix + key))
			buf.WriteByte('=')
			for i, e := range elems {
				if i > 0 {
					buf.WriteString("%2C")
				}
				_, ev := classify(e)
				buf.WriteString(s.encode(s.formatValue(ev)))
			}
			s.add(buf.String())
		}
	default:
		for _, e := range elems {
			s.serializeKey(key, e, prefix)
		}
	}
}

func (s *serializer) serializeObject(key string, params Params, prefix string) {
	for _, p := range params {
		if s.opts.AllowDots {
			s.serializeKey(key+"."+p.Key, p.Value, prefix)
		} else {
			s.serializeKey(key+"["+p.Key+"]", p.Value, prefix)
		}
	}
}
