package qparams

import (
	"fmt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"math"
	"net"
	"net/http"
	"regexp"
	"testing"
	"time"
)

func TestSerialize(t *testing.T) {
	testDate := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	intVal := 5
	var nilStr *string
	testCases := []struct {
		params  any
		options []Option
		expect  string
	}{
		{
			params: Params{{"name", "John"}, {"age", 30}},
			expect: "name=John&age=30",
		},
		{
			params: nil,
			expect: "",
		},
		{
			params: Params{},
			expect: "",
		},
		{
			params: "not a mapping",
			expect: "",
		},
		{
			params: Params{{"tags", []string{"typescript", "npm"}}},
			expect: "tags=typescript&tags=npm",
		},
		{
			params:  Params{{"tags", []string{"typescript", "npm"}}},
			options: []Option{WithArrayEncoding(Bracket)},
			expect:  "tags%5B%5D=typescript&tags%5B%5D=npm",
		},
		{
			params:  Params{{"tags", []string{"typescript", "npm"}}},
			options: []Option{WithArrayEncoding(Index)},
			expect:  "tags%5B0%5D=typescript&tags%5B1%5D=npm",
		},
		{
			params:  Params{{"tags", []string{"typescript", "npm"}}},
			options: []Option{WithArrayEncoding(Comma)},
			expect:  "tags=typescript%2Cnpm",
		},
		{
			params:  Params{{"tags", [2]string{"a", "b"}}},
			options: []Option{Options{ArrayEncoding: Index}},
			expect:  "tags%5B0%5D=a&tags%5B1%5D=b",
		},
		{
			params:  Params{{"a", 1}, {"tags", []string{}}, {"b", 2}},
			options: []Option{WithArrayEncoding(Comma)},
			expect:  "a=1&b=2",
		},
		{
			params:  Params{{"k", []any{"a b", nil, testDate, true}}},
			options: []Option{WithArrayEncoding(Comma), WithBooleanFormat(Numeric)},
			expect:  "k=a%20b%2C%2C2023-04-01T12%3A00%3A00.000Z%2C1",
		},
		{
			params: Params{{"a", nil}, {"b", nilStr}, {"c", "value"}},
			expect: "a=&b=&c=value",
		},
		{
			params:  Params{{"a", nil}, {"b", nilStr}, {"c", "value"}},
			options: []Option{SkipNull()},
			expect:  "c=value",
		},
		{
			params: Params{{"a", ""}, {"b", "value"}},
			expect: "a=&b=value",
		},
		{
			params:  Params{{"a", ""}, {"b", "value"}},
			options: []Option{SkipEmptyString()},
			expect:  "b=value",
		},
		{
			params:  Params{{"a", ""}, {"b", nil}},
			options: []Option{SkipNull()},
			expect:  "a=",
		},
		{
			params: Params{{"a", []any{nil, "x"}}},
			expect: "a=&a=x",
		},
		{
			params:  Params{{"a", []any{nil, "x"}}},
			options: []Option{SkipNull()},
			expect:  "a=x",
		},
		{
			params: Params{{"a", true}, {"b", false}},
			expect: "a=true&b=false",
		},
		{
			params:  Params{{"a", true}, {"b", false}},
			options: []Option{WithBooleanFormat(Numeric)},
			expect:  "a=1&b=0",
		},
		{
			params: Params{{"user", Params{{"name", "John"}, {"age", 30}}}},
			expect: "user%5Bname%5D=John&user%5Bage%5D=30",
		},
		{
			params:  Params{{"user", Params{{"name", "John"}, {"age", 30}}}},
			options: []Option{AllowDots()},
			expect:  "user.name=John&user.age=30",
		},
		{
			params: Params{{"date", testDate}},
			expect: "date=2023-04-01T12%3A00%3A00.000Z",
		},
		{
			params: Params{{"date", &testDate}},
			expect: "date=2023-04-01T12%3A00%3A00.000Z",
		},
		{
			params: Params{{"date", testDate.In(time.FixedZone("X", 3600)).Add(123 * time.Millisecond)}},
			expect: "date=2023-04-01T12%3A00%3A00.123Z",
		},
		{
			params: Params{{"date", testDate}},
			options: []Option{WithDateSerializer(func(t time.Time) string {
				return t.Format(http.TimeFormat)
			})},
			expect: "date=Sat%2C%2001%20Apr%202023%2012%3A00%3A00%20GMT",
		},
		{
			params: Params{{"a", 1}, {"b", Params{{"c", 2}, {"d", []int{3, 4}}, {"e", Params{{"f", 5}}}}}},
			expect: "a=1&b%5Bc%5D=2&b%5Bd%5D=3&b%5Bd%5D=4&b%5Be%5D%5Bf%5D=5",
		},
		{
			params:  Params{{"a", 1}, {"b", Params{{"c", 2}, {"d", []int{3, 4}}, {"e", Params{{"f", 5}}}}}},
			options: []Option{AllowDots(), WithArrayEncoding(Index)},
			expect:  "a=1&b.c=2&b.d%5B0%5D=3&b.d%5B1%5D=4&b.e.f=5",
		},
		{
			params: Params{{"users", []Params{
				{{"id", 1}, {"name", "Alice"}},
				{{"id", 2}, {"name", "Bob"}},
			}}},
			options: []Option{WithArrayEncoding(Index)},
			expect:  "users%5B0%5D%5Bid%5D=1&users%5B0%5D%5Bname%5D=Alice&users%5B1%5D%5Bid%5D=2&users%5B1%5D%5Bname%5D=Bob",
		},
		{
			params:  Params{{"u", []any{Params{{"id", 1}}, Params{{"id", 2}}}}},
			options: []Option{WithArrayEncoding(Bracket)},
			expect:  "u%5B%5D%5Bid%5D=1&u%5B%5D%5Bid%5D=2",
		},
		{
			params:  Params{{"m", [][]int{{1, 2}, {3}}}},
			options: []Option{WithArrayEncoding(Index)},
			expect:  "m%5B0%5D%5B0%5D=1&m%5B0%5D%5B1%5D=2&m%5B1%5D%5B0%5D=3",
		},
		{
			params:  Params{{"b", 2}, {"a", 1}, {"c", 3}},
			options: []Option{Sort()},
			expect:  "a=1&b=2&c=3",
		},
		{
			// sorting is on the encoded pairs - "[" encodes as "%5B" which sorts before "Z"
			params:  Params{{"aZ", 1}, {"a[", 2}},
			options: []Option{Sort()},
			expect:  "a%5B=2&aZ=1",
		},
		{
			params:  Params{{"a", 1}, {"b", 2}},
			options: []Option{AddQueryPrefix()},
			expect:  "?a=1&b=2",
		},
		{
			params:  Params{},
			options: []Option{AddQueryPrefix()},
			expect:  "?",
		},
		{
			params: Params{{"test", "hello"}},
			options: []Option{WithEncoder(func(s string) string {
				return regexp.MustCompile("[aeiou]").ReplaceAllString(s, "_")
			})},
			expect: "t_st=h_ll_",
		},
		{
			params: Params{{"q", "a b&c=d"}, {"a b", "x+y"}},
			expect: "q=a%20b%26c%3Dd&a%20b=x%2By",
		},
		{
			params: Params{{"q", "100%"}},
			expect: "q=100%25",
		},
		{
			params: Params{{"q", "日本"}},
			expect: "q=%E6%97%A5%E6%9C%AC",
		},
		{
			params: Params{{"a", 1.5}, {"b", float32(0.1)}, {"c", -2.0}, {"d", decimal.RequireFromString("12.34")}},
			expect: "a=1.5&b=0.1&c=-2&d=12.34",
		},
		{
			params: Params{{"a", math.NaN()}, {"b", math.Inf(1)}, {"c", math.Inf(-1)}},
			expect: "a=NaN&b=Infinity&c=-Infinity",
		},
		{
			params: Params{{"a", uint8(7)}, {"b", int64(-3)}, {"c", &intVal}},
			expect: "a=7&b=-3&c=5",
		},
		{
			params: Params{{"ip", net.ParseIP("10.0.0.1")}},
			expect: "ip=10.0.0.1",
		},
		{
			params: Params{{"s", testNamedString("x")}, {"e", testNamedString("")}, {"b", testNamedBool(true)}},
			expect: "s=x&e=&b=true",
		},
		{
			params: map[string]any{"b": 2, "a": 1, "c": map[string]int{"z": 1, "y": 2}},
			expect: "a=1&b=2&c%5By%5D=2&c%5Bz%5D=1",
		},
		{
			params: map[int]string{2: "b", 1: "a"},
			expect: "1=a&2=b",
		},
		{
			params: Params{{"empty", Params{}}, {"nilMap", map[string]any(nil)}, {"nilSlice", []string(nil)}, {"a", 1}},
			expect: "a=1",
		},
		{
			params: &testStruct{Name: "John", Age: 30, Tags: []string{"x"}},
			expect: "name=John&age=30&tags=x&Plain=",
		},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprintf("[%d]", i+1), func(t *testing.T) {
			result := Serialize(tc.params, tc.options...)
			assert.Equal(t, tc.expect, result)
		})
	}
}

func TestSerialize_SortIsOrderIndependent(t *testing.T) {
	r1 := Serialize(Params{{"a", 1}, {"b", 2}}, Sort())
	r2 := Serialize(Params{{"b", 2}, {"a", 1}}, Sort())
	assert.Equal(t, r1, r2)
	assert.Equal(t, "a=1&b=2", r1)
}

func TestSerialize_InsertionOrder(t *testing.T) {
	params := Params{}
	for i := 10; i > 0; i-- {
		params = params.Add(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, "k10=10&k9=9&k8=8&k7=7&k6=6&k5=5&k4=4&k3=3&k2=2&k1=1", Serialize(params))
}

func TestSerialize_EncodesOnce(t *testing.T) {
	calls := 0
	encoder := func(s string) string {
		calls++
		return Escape(s)
	}
	result := Serialize(Params{{"a", "x y"}, {"b", Params{{"c", 1}}}, {"d", []int{1, 2}}}, WithEncoder(encoder), WithArrayEncoding(Comma))
	assert.Equal(t, "a=x%20y&b%5Bc%5D=1&d=1%2C2", result)
	// a: key + value, b[c]: key + value, d: key + 2 elements
	assert.Equal(t, 7, calls)
	assert.NotContains(t, result, "%25")
}

func TestSerialize_TopLevelStringer(t *testing.T) {
	q := testStringerQuery{A: 1, B: "x"}
	assert.Equal(t, "a=1&b=x", Serialize(q))
	assert.Equal(t, "a=1&b=x", Serialize(&q))
	assert.Equal(t, "k=1", Serialize(testStringerMap{"k": 1}))
	// nested Stringer values are still leaves
	assert.Equal(t, "q=stringer", Serialize(Params{{"q", q}}))
	assert.Equal(t, "q=stringer", Serialize(Params{{"q", &q}}))
}

func TestSerialize_CallbackPanicsPropagate(t *testing.T) {
	assert.Panics(t, func() {
		Serialize(Params{{"a", time.Now()}}, WithDateSerializer(func(t time.Time) string {
			panic("boom")
		}))
	})
}

type testNamedString string

type testNamedBool bool

type testStruct struct {
	Name    string   `query:"name"`
	Age     int      `query:"age,omitempty"`
	Tags    []string `query:"tags"`
	Ignored string   `query:"-"`
	Plain   string
	private string
}

type testStringerQuery struct {
	A int    `query:"a"`
	B string `query:"b"`
}

func (testStringerQuery) String() string {
	return "stringer"
}

type testStringerMap map[string]int

func (testStringerMap) String() string {
	return "stringer"
}
