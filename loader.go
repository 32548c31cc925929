package jsontree

import (
	"io"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// LoaderOptions controls how Load/LoadFile ingest raw bytes before
// handing them to Parse.
type LoaderOptions struct {
	// YAML re-encodes the input from YAML to canonical JSON before
	// parsing, so the resulting Tree is offset-indexed over the JSON
	// form rather than the original YAML bytes.
	YAML bool
	// NonStandard accepts single-quoted strings and trailing commas,
	// converting both to standard JSON before parsing.
	NonStandard bool
}

// Load parses buf into a Tree, applying opts.
func Load(buf []byte, opts LoaderOptions) (*Tree, error) {
	if opts.YAML {
		converted, err := yamlToJSON(buf)
		if err != nil {
			return nil, err
		}
		buf = converted
	}
	if opts.NonStandard {
		converted, err := normalizeNonStandard(buf)
		if err != nil {
			return nil, err
		}
		buf = converted
	}
	return Parse(buf)
}

// LoadFile reads path and parses it, inferring YAML conversion from the
// file extension unless opts.YAML is already set.
func LoadFile(path string, opts LoaderOptions) (*Tree, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !opts.YAML && looksLikeYAMLPath(path) {
		opts.YAML = true
	}
	return Load(buf, opts)
}

// LoadReader drains r and parses the result, applying opts.
func LoadReader(r io.Reader, opts LoaderOptions) (*Tree, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(buf, opts)
}

func looksLikeYAMLPath(path string) bool {
	n := len(path)
	return n >= 5 && path[n-5:] == ".yaml" || n >= 4 && path[n-4:] == ".yml"
}

// yamlToJSON decodes buf as YAML and re-encodes it as JSON, since
// Tree's arena is built over a JSON lexer and has no notion of YAML's
// own syntax.
func yamlToJSON(buf []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return nil, &MalformedError{Expected: "valid YAML: " + err.Error(), Buffer: buf}
	}
	return jsonMarshalImpl(doc)
}

// normalizeNonStandard rewrites single-quoted strings as double-quoted
// ones and drops trailing commas before a closing '}' or ']', so the
// result is standard JSON the ordinary lexer can parse. Double-quoted
// strings are copied through untouched; only bytes outside any string
// literal are inspected for trailing commas.
func normalizeNonStandard(buf []byte) ([]byte, error) {
	out := make([]byte, 0, len(buf))
	i := 0
	n := len(buf)
	for i < n {
		c := buf[i]
		switch c {
		case '"':
			end, err := newLexer(buf).skipString(i)
			if err != nil {
				return nil, err
			}
			out = append(out, buf[i:end]...)
			i = end
		case '\'':
			converted, end, err := convertSingleQuoted(buf, i)
			if err != nil {
				return nil, err
			}
			out = append(out, converted...)
			i = end
		case ',':
			j := i + 1
			for j < n && isJSONWhitespace(buf[j]) {
				j++
			}
			if j < n && (buf[j] == '}' || buf[j] == ']') {
				i++
				continue
			}
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return out, nil
}

func isJSONWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// convertSingleQuoted reads a single-quoted string starting at i (which
// must point at the opening quote) and returns its standard
// double-quoted JSON rendering, plus the offset just past the closing
// quote.
func convertSingleQuoted(buf []byte, i int) (converted []byte, end int, err error) {
	n := len(buf)
	var b []byte
	b = append(b, '"')
	j := i + 1
	for j < n {
		c := buf[j]
		switch {
		case c == '\'':
			b = append(b, '"')
			return b, j + 1, nil
		case c == '\\' && j+1 < n && buf[j+1] == '\'':
			b = append(b, '\'')
			j += 2
		case c == '"':
			b = append(b, '\\', '"')
			j++
		default:
			b = append(b, c)
			j++
		}
	}
	return nil, 0, &MalformedError{Offset: i, Expected: "closing '\\''", Buffer: buf}
}
