// =============================================================================
// Compute Sales - JSON Loader
// =============================================================================
//
// This module reads an input document from disk and decodes it into generic
// JSON values. It does not check the shape of the document; the catalogue
// builder and the sales aggregator decide what they accept.
//
// DECODING:
//   - Invalid UTF-8 byte sequences are dropped before parsing
//   - Numbers are kept as json.Number so that identifiers such as SALE_ID keep
//     the text they were written with
//   - Anything after the top-level value other than whitespace is an error
//
// =============================================================================

package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadError reports a document that could not be read or parsed.
type LoadError struct {
	// Path is the file that failed to load.
	Path string

	// Err is the underlying OS or JSON syntax error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the file at path and returns its decoded JSON value.
//
// RETURNS:
//   - []any for arrays, map[string]any for objects, json.Number for numbers,
//     string, bool or nil for the remaining scalars.
//   - A *LoadError if the file cannot be read or is not valid JSON.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	value, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return value, nil
}

// Decode parses raw bytes the same way Load does.
func Decode(data []byte) (any, error) {
	text := strings.ToValidUTF8(string(data), "")

	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	// The decoder stops after the first value; anything but whitespace after
	// it is an error.
	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: extra data after top-level value")
	}

	return value, nil
}
