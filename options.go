package qparams

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
	"time"
)

// ArrayEncoding determines how the elements of a sequence map to key=value pairs
type ArrayEncoding int

const (
	// Repeat reuses the same key for every element - e.g. tags=a&tags=b
	Repeat ArrayEncoding = iota
	// Bracket appends [] to the key - e.g. tags[]=a&tags[]=b
	Bracket
	// Index appends the zero-based element position - e.g. tags[0]=a&tags[1]=b
	Index
	// Comma joins the elements into a single value - e.g. tags=a,b
	Comma
)

var arrayEncodingNames = map[ArrayEncoding]string{
	Repeat:  "repeat",
	Bracket: "bracket",
	Index:   "index",
	Comma:   "comma",
}

func (e ArrayEncoding) String() string {
	if s, ok := arrayEncodingNames[e]; ok {
		return s
	}
	return fmt.Sprintf("ArrayEncoding(%d)", int(e))
}

// ParseArrayEncoding parses the name of an array encoding ("repeat", "bracket", "index" or "comma")
func ParseArrayEncoding(s string) (ArrayEncoding, error) {
	for e, name := range arrayEncodingNames {
		if strings.EqualFold(s, name) {
			return e, nil
		}
	}
	return Repeat, fmt.Errorf("unknown array encoding %q", s)
}

func (e *ArrayEncoding) UnmarshalYAML(value *yaml.Node) (err error) {
	var s string
	if err = value.Decode(&s); err == nil {
		*e, err = ParseArrayEncoding(s)
	}
	return err
}

// BooleanFormat determines how boolean leaf values are written
type BooleanFormat int

const (
	// Literal writes booleans as true / false
	Literal BooleanFormat = iota
	// Numeric writes booleans as 1 / 0
	Numeric
)

func (f BooleanFormat) String() string {
	switch f {
	case Literal:
		return "literal"
	case Numeric:
		return "numeric"
	}
	return fmt.Sprintf("BooleanFormat(%d)", int(f))
}

// ParseBooleanFormat parses the name of a boolean format ("literal" or "numeric")
func ParseBooleanFormat(s string) (BooleanFormat, error) {
	switch strings.ToLower(s) {
	case "literal":
		return Literal, nil
	case "numeric":
		return Numeric, nil
	}
	return Literal, fmt.Errorf("unknown boolean format %q", s)
}

func (f *BooleanFormat) UnmarshalYAML(value *yaml.Node) (err error) {
	var s string
	if err = value.Decode(&s); err == nil {
		*f, err = ParseBooleanFormat(s)
	}
	return err
}

// Options is the configuration used by Serialize
//
// The zero value is the default configuration (except that Encoder and SerialiseDate are nil,
// in which case Escape and ISODate are used)
type Options struct {
	ArrayEncoding   ArrayEncoding `yaml:"arrayEncoding"`
	SkipNull        bool          `yaml:"skipNull"`
	SkipEmptyString bool          `yaml:"skipEmptyString"`
	BooleanFormat   BooleanFormat `yaml:"booleanFormat"`
	AllowDots       bool          `yaml:"allowDots"`
	Sort            bool          `yaml:"sort"`
	AddQueryPrefix  bool          `yaml:"addQueryPrefix"`
	// Encoder, if set, replaces Escape for every key and every value
	Encoder func(string) string `yaml:"-"`
	// SerialiseDate, if set, replaces ISODate for time.Time values
	SerialiseDate func(time.Time) string `yaml:"-"`
}

// Option is implemented by anything that can be passed as an option to Serialize or BuildURL
//
// Options is itself an Option - when used as an option, only its non-zero fields are applied
type Option interface {
	apply(o *Options)
}

var _ Option = Options{}

func (o Options) apply(to *Options) {
	if o.ArrayEncoding != Repeat {
		to.ArrayEncoding = o.ArrayEncoding
	}
	if o.BooleanFormat != Literal {
		to.BooleanFormat = o.BooleanFormat
	}
	to.SkipNull = to.SkipNull || o.SkipNull
	to.SkipEmptyString = to.SkipEmptyString || o.SkipEmptyString
	to.AllowDots = to.AllowDots || o.AllowDots
	to.Sort = to.Sort || o.Sort
	to.AddQueryPrefix = to.AddQueryPrefix || o.AddQueryPrefix
	if o.Encoder != nil {
		to.Encoder = o.Encoder
	}
	if o.SerialiseDate != nil {
		to.SerialiseDate = o.SerialiseDate
	}
}

type optionFunc func(o *Options)

func (f optionFunc) apply(o *Options) {
	f(o)
}

// NewOptions resolves the supplied options (applied in order) onto the defaults
func NewOptions(options ...Option) Options {
	result := Options{}
	for _, o := range options {
		if o != nil {
			o.apply(&result)
		}
	}
	if result.Encoder == nil {
		result.Encoder = Escape
	}
	if result.SerialiseDate == nil {
		result.SerialiseDate = ISODate
	}
	return result
}

// LoadOptions reads options from a yaml (or json) document
//
// An empty document yields the default options
func LoadOptions(r io.Reader) (Options, error) {
	o := Options{}
	if err := yaml.NewDecoder(r).Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}
	return NewOptions(o), nil
}

// WithArrayEncoding sets how sequences are written (default Repeat)
func WithArrayEncoding(e ArrayEncoding) Option {
	return optionFunc(func(o *Options) {
		o.ArrayEncoding = e
	})
}

// WithBooleanFormat sets how booleans are written (default Literal)
func WithBooleanFormat(f BooleanFormat) Option {
	return optionFunc(func(o *Options) {
		o.BooleanFormat = f
	})
}

// SkipNull omits pairs whose value is nil
func SkipNull() Option {
	return optionFunc(func(o *Options) {
		o.SkipNull = true
	})
}

// SkipEmptyString omits pairs whose value is an empty string
func SkipEmptyString() Option {
	return optionFunc(func(o *Options) {
		o.SkipEmptyString = true
	})
}

// AllowDots uses dot notation (user.name) instead of brackets (user[name]) for nested mappings
func AllowDots() Option {
	return optionFunc(func(o *Options) {
		o.AllowDots = true
	})
}

// Sort sorts the final encoded key=value pairs
func Sort() Option {
	return optionFunc(func(o *Options) {
		o.Sort = true
	})
}

// AddQueryPrefix prefixes the result with "?" (even when there are no pairs)
func AddQueryPrefix() Option {
	return optionFunc(func(o *Options) {
		o.AddQueryPrefix = true
	})
}

// WithEncoder replaces Escape as the encoder applied to every key and value
func WithEncoder(encoder func(string) string) Option {
	return optionFunc(func(o *Options) {
		o.Encoder = encoder
	})
}

// WithDateSerializer replaces ISODate as the formatter for time.Time values
func WithDateSerializer(serialiseDate func(time.Time) string) Option {
	return optionFunc(func(o *Options) {
		o.SerialiseDate = serialiseDate
	})
}
