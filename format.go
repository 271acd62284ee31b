package qparams

import (
	"fmt"
	"github.com/shopspring/decimal"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Escape is the default encoder - it percent-encodes every byte except the unreserved
// characters A-Z, a-z, 0-9, '-', '_', '.' and '~' (spaces become %20)
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

const isoDateLayout = "2006-01-02T15:04:05.000Z"

// ISODate is the default date serializer - ISO-8601 in UTC with millisecond precision,
// e.g. 2023-04-01T12:00:00.000Z
func ISODate(t time.Time) string {
	return t.UTC().Format(isoDateLayout)
}

// formatValue converts a leaf value to its string form (prior to encoding)
func (s *serializer) formatValue(v any) string {
	switch vt := v.(type) {
	case nil:
		return ""
	case string:
		return vt
	case time.Time:
		return s.opts.SerialiseDate(vt)
	case bool:
		return s.formatBool(vt)
	case int:
		return strconv.Itoa(vt)
	case int64:
		return strconv.FormatInt(vt, 10)
	case float64:
		return formatFloat(vt, 64)
	case float32:
		return formatFloat(float64(vt), 32)
	case decimal.Decimal:
		return vt.String()
	case fmt.Stringer:
		return vt.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return s.formatBool(rv.Bool())
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	}
	return fmt.Sprint(v)
}

func (s *serializer) formatBool(b bool) string {
	if s.opts.BooleanFormat == Numeric {
		if b {
			return "1"
		}
		return "0"
	}
	return strconv.FormatBool(b)
}

// formatFloat gives the shortest representation that round trips, without an exponent
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case bitSize == 32:
		return decimal.NewFromFloat32(float32(f)).String()
	}
	return decimal.NewFromFloat(f).String()
}
