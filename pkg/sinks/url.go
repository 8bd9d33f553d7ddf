// Package sinks opens output sinks from URL descriptions of the form
//
//	type:path?key1=value1,key2=value2
//
// where type is one of file, hdf5, stdout or stderr. Recognized keys
// are open_mode (append, truncate), format (csvtab, csvrel) and
// compress (none, gzip, zstd); an unknown type, key or value is an
// error.
package sinks

import (
	"io"
	"strings"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/sinks/hdf5"
	"github.com/ajitpratap0/tabula/pkg/sinks/text"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

// ParseURL splits a sink URL into its type, path and query variables.
func ParseURL(url string) (typ, path string, vars map[string]string, err error) {
	typ, rest, ok := strings.Cut(url, ":")
	if !ok || typ == "" {
		return "", "", nil, errors.Newf(errors.ErrorTypeConfig, "malformed sink URL %q", url)
	}
	path, query, hasQuery := strings.Cut(rest, "?")
	vars = make(map[string]string)
	if !hasQuery {
		return typ, path, vars, nil
	}
	for _, pair := range strings.Split(query, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return "", "", nil, errors.Newf(errors.ErrorTypeConfig,
				"malformed variable %q in sink URL %q", pair, url)
		}
		vars[k] = v
	}
	return typ, path, vars, nil
}

var openModes = map[string]tabular.OpenMode{
	"append":   tabular.OpenAppend,
	"truncate": tabular.OpenTruncate,
}

var textFormats = map[string]text.Format{
	"csvtab": text.FormatCsvTab,
	"csvrel": text.FormatCsvRel,
}

var compressions = map[string]text.Compression{
	"none": text.CompressNone,
	"gzip": text.CompressGzip,
	"zstd": text.CompressZstd,
}

func enumVar[T any](vars map[string]string, key string, values map[string]T, def T) (T, error) {
	raw, set := vars[key]
	if !set {
		return def, nil
	}
	v, ok := values[raw]
	if !ok {
		return def, errors.Newf(errors.ErrorTypeConfig,
			"illegal value in sink URL: %s=%s", key, raw)
	}
	return v, nil
}

var recognizedKeys = map[string]bool{
	"open_mode": true,
	"format":    true,
	"compress":  true,
}

// Open parses a sink URL and instantiates the sink it names. The
// stdout and stderr types return references to the process-global text
// sinks; release sinks through Release so the globals are not closed.
func Open(url string) (tabular.Sink, error) {
	typ, path, vars, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	for k := range vars {
		if !recognizedKeys[k] {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"unknown key %q in sink URL %q", k, url)
		}
	}

	mode, err := enumVar(vars, "open_mode", openModes, tabular.DefaultOpenMode)
	if err != nil {
		return nil, err
	}
	format, err := enumVar(vars, "format", textFormats, text.DefaultFormat)
	if err != nil {
		return nil, err
	}
	compress, err := enumVar(vars, "compress", compressions, text.CompressNone)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "file":
		return text.NewCompressedFile(path, mode, format, compress)
	case "hdf5":
		return hdf5.Open(path, mode)
	case "stdout":
		return text.Stdout, nil
	case "stderr":
		return text.Stderr, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown sink type %q in URL %q", typ, url)
	}
}

// Release closes a sink obtained from Open, leaving the process-global
// stdout and stderr sinks untouched.
func Release(s tabular.Sink) error {
	if s == tabular.Sink(text.Stdout) || s == tabular.Sink(text.Stderr) {
		return nil
	}
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
