package config

import (
	"flag"
	"fmt"
	"github.com/go-andiamo/qparams"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/basicflag"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"strings"
)

type Config struct {
	Options OptionsConfig `koanf:"options"`
	// URL is an optional path template - when set, output is a full url (see qparams.BuildURL)
	URL string `koanf:"url"`
	// PathVars are the positional values for URL
	PathVars []string `koanf:"pathVars"`
	// Path is an optional json path selecting the part of the input document to serialize
	Path    string `koanf:"path"`
	Verbose bool   `koanf:"verbose"`
}

type OptionsConfig struct {
	ArrayEncoding   string `koanf:"arrayEncoding"`
	BooleanFormat   string `koanf:"booleanFormat"`
	SkipNull        bool   `koanf:"skipNull"`
	SkipEmptyString bool   `koanf:"skipEmptyString"`
	AllowDots       bool   `koanf:"allowDots"`
	Sort            bool   `koanf:"sort"`
	AddQueryPrefix  bool   `koanf:"addQueryPrefix"`
}

// ConfigFlag is the name of the flag holding the config file path
const ConfigFlag = "config"

// flagKeys maps command line flag names to config keys
var flagKeys = map[string]string{
	"array":      "options.arrayEncoding",
	"bool":       "options.booleanFormat",
	"dots":       "options.allowDots",
	"sort":       "options.sort",
	"prefix":     "options.addQueryPrefix",
	"skip-null":  "options.skipNull",
	"skip-empty": "options.skipEmptyString",
	"path":       "path",
	"url":        "url",
	"vars":       "pathVars",
	"v":          "verbose",
}

// NewFlagSet defines the command line flags understood by Load
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String(ConfigFlag, "", "yaml config file")
	fs.String("array", "", "array encoding: repeat, bracket, index or comma")
	fs.String("bool", "", "boolean format: literal or numeric")
	fs.Bool("dots", false, "use dot notation for nested keys")
	fs.Bool("sort", false, "sort the encoded pairs")
	fs.Bool("prefix", false, "prefix the output with ?")
	fs.Bool("skip-null", false, "omit null values")
	fs.Bool("skip-empty", false, "omit empty string values")
	fs.String("path", "", "json path of the part of the document to serialize")
	fs.String("url", "", "path template - output a url rather than just a query string")
	fs.String("vars", "", "comma separated positional path vars for -url")
	fs.Bool("v", false, "verbose (debug) logging")
	return fs
}

// Load reads the config file named by the -config flag (if any), then the explicitly set
// flags (which override the file) and finally applies defaults
//
// fs must be parsed - a nil fs loads only defaults
func Load(fs *flag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	if fs != nil {
		if f := fs.Lookup(ConfigFlag); f != nil && f.Value.String() != "" {
			if err := k.Load(file.Provider(f.Value.String()), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
		if err := k.Load(basicflag.ProviderWithValue(fs, ".", flagValue(fs)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}
	if err := applyDefaults(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// flagValue maps flag names to config keys - flags not explicitly set on the command line
// are disregarded so that their defaults do not override the config file
func flagValue(fs *flag.FlagSet) func(key string, value string) (string, any) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return func(name string, value string) (string, any) {
		key, ok := flagKeys[name]
		if !ok || !set[name] {
			return "", nil
		}
		if name == "vars" {
			return key, strings.Split(value, ",")
		}
		if g, ok := fs.Lookup(name).Value.(flag.Getter); ok {
			return key, g.Get()
		}
		return key, value
	}
}

func applyDefaults(k *koanf.Koanf) error {
	if err := setDefault(k, "options.arrayEncoding", qparams.Repeat.String()); err != nil {
		return err
	}
	return setDefault(k, "options.booleanFormat", qparams.Literal.String())
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) error {
	if !k.Exists(key) {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("failed to set default %q: %w", key, err)
		}
	}
	return nil
}

// QueryOptions converts the options config into serializer options
func (c OptionsConfig) QueryOptions() (result qparams.Options, err error) {
	if result.ArrayEncoding, err = qparams.ParseArrayEncoding(c.ArrayEncoding); err != nil {
		return result, err
	}
	if result.BooleanFormat, err = qparams.ParseBooleanFormat(c.BooleanFormat); err != nil {
		return result, err
	}
	result.SkipNull = c.SkipNull
	result.SkipEmptyString = c.SkipEmptyString
	result.AllowDots = c.AllowDots
	result.Sort = c.Sort
	result.AddQueryPrefix = c.AddQueryPrefix
	return qparams.NewOptions(result), nil
}
