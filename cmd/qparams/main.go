// Command qparams serializes a yaml or json document into a url query string
//
// Usage:
//
//	qparams [flags] [file]
//
// The document is read from file (or stdin if no file is given) and the query string is
// written to stdout
package main

import (
	"fmt"
	"github.com/go-andiamo/gopt"
	"github.com/go-andiamo/qparams"
	"github.com/go-andiamo/qparams/internal/config"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := config.NewFlagSet("qparams")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)
	defer func() {
		_ = logger.Sync()
	}()
	logger.Debugw("loaded config", "file", fs.Lookup(config.ConfigFlag).Value.String(), "options", cfg.Options, "path", cfg.Path, "url", cfg.URL)

	var data []byte
	if data, err = readInput(fs.Arg(0), stdin); err != nil {
		return err
	}
	var doc any
	if doc, err = selectDocument(data, cfg.Path); err != nil {
		logger.Errorw("invalid input document", "error", err)
		return err
	}
	var opts qparams.Options
	if opts, err = cfg.Options.QueryOptions(); err != nil {
		return err
	}
	out := ""
	if cfg.URL != "" {
		pathVars := make([]any, len(cfg.PathVars))
		for i, v := range cfg.PathVars {
			pathVars[i] = v
		}
		if out, err = qparams.BuildURL(cfg.URL, pathVars, doc, opts); err != nil {
			logger.Errorw("building url", "template", cfg.URL, "error", err)
			return err
		}
	} else {
		out = qparams.Serialize(doc, opts)
	}
	logger.Debugw("serialized", "length", len(out))
	_, err = fmt.Fprintln(stdout, out)
	return err
}

func newLogger(verbose bool) *zap.SugaredLogger {
	if verbose {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}
	return zap.Must(zap.NewProduction()).Sugar()
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// selectDocument decodes the input document - if a json path is given, only that part of
// the document is returned (and mapping order is then by key, not document order)
func selectDocument(data []byte, path string) (any, error) {
	if path == "" {
		return qparams.ParamsFromYAML(data)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if o, _ := gopt.ExtractJsonPath[any](m, path); o.IsPresent() {
		return o.Default(nil), nil
	}
	return nil, fmt.Errorf("json path %q does not exist", path)
}
