package qparams

import (
	"reflect"
	"strings"
)

const queryStructTag = "query"

type parsedStructTag struct {
	name      string
	omitempty bool
	inline    bool
}

func parseQueryStructTag(field reflect.StructField) (tag parsedStructTag, skip bool) {
	raw, ok := field.Tag.Lookup(queryStructTag)
	if !ok {
		tag.name = field.Name
		tag.inline = field.Anonymous && isStructType(field.Type)
		return tag, false
	} else if raw == "-" {
		return tag, true
	}
	parts := strings.Split(raw, ",")
	tag.name = parts[0]
	for _, part := range parts[1:] {
		switch part {
		case "omitempty":
			tag.omitempty = true
		case "inline":
			tag.inline = true
		}
	}
	if tag.name == "" {
		tag.name = field.Name
	}
	return tag, false
}

func isStructType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// structEntries returns the exported fields of a struct, in declaration order, as Params
//
// fields are named by their `query` tag (or the field name if untagged) - the tag supports
// options "omitempty" (zero values are skipped) and "inline" (the field's own entries are
// lifted into the parent); untagged embedded structs are inlined
func structEntries(rv reflect.Value) Params {
	rt := rv.Type()
	result := make(Params, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, skip := parseQueryStructTag(field)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if tag.omitempty && fv.IsZero() {
			continue
		}
		if tag.inline {
			if kind, v := classify(fv.Interface()); kind == kindMapping {
				result = append(result, entries(v)...)
				continue
			}
		}
		result = append(result, Param{Key: tag.name, Value: fv.Interface()})
	}
	return result
}
