package qparams

import (
	"fmt"
	"github.com/shopspring/decimal"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindEmptyString
	kindSequence
	kindMapping
	kindLeaf
)

// classify determines the kind of value - pointers are followed, so the returned value is
// the one that should be used for further handling
//
// nil slices and maps are treated as empty sequences / mappings (not as null)
func classify(v any) (valueKind, any) {
	switch vt := v.(type) {
	case nil:
		return kindNull, nil
	case string:
		if vt == "" {
			return kindEmptyString, vt
		}
		return kindLeaf, vt
	case bool, time.Time, decimal.Decimal:
		return kindLeaf, v
	case Params, []Param, map[string]any:
		return kindMapping, v
	case []any:
		return kindSequence, v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return kindNull, nil
		}
		if kind, ev := classify(rv.Elem().Interface()); kind != kindMapping || !isStringer(v) {
			return kind, ev
		}
		return kindLeaf, v
	case reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return kindNull, nil
		}
	}
	if isStringer(v) {
		return kindLeaf, v
	}
	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return kindEmptyString, v
		}
	case reflect.Slice, reflect.Array:
		return kindSequence, v
	case reflect.Map, reflect.Struct:
		return kindMapping, v
	}
	return kindLeaf, v
}

func isStringer(v any) bool {
	_, ok := v.(fmt.Stringer)
	return ok
}

// elements returns the elements of a value classified as a sequence
func elements(v any) []any {
	if vt, ok := v.([]any); ok {
		return vt
	}
	rv := reflect.ValueOf(v)
	result := make([]any, rv.Len())
	for i := range result {
		result[i] = rv.Index(i).Interface()
	}
	return result
}

// entries returns the entries of a value classified as a mapping
//
// maps (which have no inherent order) yield their entries in key order
func entries(v any) Params {
	switch vt := v.(type) {
	case Params:
		return vt
	case []Param:
		return vt
	case map[string]any:
		result := make(Params, 0, len(vt))
		for _, k := range slices.Sorted(maps.Keys(vt)) {
			result = append(result, Param{Key: k, Value: vt[k]})
		}
		return result
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return mapEntries(rv)
	case reflect.Struct:
		return structEntries(rv)
	}
	return nil
}

func mapEntries(rv reflect.Value) Params {
	result := make(Params, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		result = append(result, Param{Key: mapKeyString(iter.Key()), Value: iter.Value().Interface()})
	}
	slices.SortStableFunc(result, func(a, b Param) int {
		return strings.Compare(a.Key, b.Key)
	})
	return result
}

func mapKeyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
