package qparams

import (
	"fmt"
	"github.com/go-andiamo/urit"
	"slices"
	"strings"
)

// BuildURL resolves the path template (e.g. "/api/users/{id}/orders") using the positional
// path vars and appends the serialized params
//
// path vars are formatted like leaf values (so dates, booleans etc. honour the options) and
// encoded with the configured encoder; the query is appended with "?" (or "&" if the template
// already has a query) and nothing is appended when the query is empty - the AddQueryPrefix
// option is ignored
func BuildURL(template string, pathVars []any, params any, options ...Option) (result string, err error) {
	var tmp urit.Template
	if tmp, err = urit.NewTemplate(template); err != nil {
		return "", fmt.Errorf("invalid path template %q: %w", template, err)
	}
	opts := append(slices.Clone(options), optionFunc(func(o *Options) {
		o.AddQueryPrefix = false
	}))
	pps := pathParams{
		values: pathVars,
		s:      &serializer{opts: NewOptions(opts...)},
	}
	if result, err = tmp.PathFrom(pps); err != nil {
		return "", fmt.Errorf("resolving path template %q: %w", template, err)
	}
	if q := Serialize(params, opts...); q != "" {
		if strings.Contains(template, "?") {
			result += "&" + q
		} else {
			result += "?" + q
		}
	}
	return result, nil
}

type pathParams struct {
	values []any
	s      *serializer
}

var _ urit.PathVars = pathParams{}

func (p pathParams) GetPositional(position int) (string, bool) {
	if position >= 0 && position < len(p.values) {
		_, v := classify(p.values[position])
		return p.s.encode(p.s.formatValue(v)), true
	}
	return "", false
}

func (p pathParams) GetNamed(name string, position int) (string, bool) {
	return "", false
}

func (p pathParams) GetNamedFirst(name string) (string, bool) {
	return "", false
}

func (p pathParams) GetNamedLast(name string) (string, bool) {
	return "", false
}

func (p pathParams) Get(idents ...interface{}) (string, bool) {
	if len(idents) == 1 {
		if i, ok := idents[0].(int); ok {
			return p.GetPositional(i)
		}
	}
	return "", false
}

func (p pathParams) GetAll() []urit.PathVar {
	return nil
}

func (p pathParams) Len() int {
	return len(p.values)
}

func (p pathParams) Clear() {}

func (p pathParams) VarsType() urit.PathVarsType {
	return urit.Positions
}

func (p pathParams) AddNamedValue(name string, val interface{}) error {
	return nil
}

func (p pathParams) AddPositionalValue(val interface{}) error {
	return nil
}
