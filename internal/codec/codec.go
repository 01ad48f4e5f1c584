// Package codec converts Records to and from single log lines.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"apiprobe/internal/models"
)

// ErrMalformedRecord is returned when a stored line cannot be decoded.
var ErrMalformedRecord = errors.New("malformed record")

// Encode serializes r as one JSON line without a trailing separator.
// encoding/json escapes control characters, so the result never contains '\n' or '\r'.
// HTML escaping is off so that compact results are stored byte for byte.
func Encode(r models.Record) ([]byte, error) {
	r.Timestamp = r.Timestamp.UTC()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a line produced by Encode.
func Decode(line []byte) (models.Record, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return models.Record{}, fmt.Errorf("%w: not a JSON object", ErrMalformedRecord)
	}

	var r models.Record
	if err := json.Unmarshal(line, &r); err != nil {
		return models.Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if err := validate(r); err != nil {
		return models.Record{}, err
	}
	r.Timestamp = r.Timestamp.UTC()
	if isJSONNull(r.Result) {
		r.Result = nil
	}
	return r, nil
}

func validate(r models.Record) error {
	switch {
	case r.Timestamp.IsZero():
		return fmt.Errorf("%w: missing timestamp", ErrMalformedRecord)
	case r.Level == "":
		return fmt.Errorf("%w: missing level", ErrMalformedRecord)
	case !r.Level.Valid():
		return fmt.Errorf("%w: unknown level %q", ErrMalformedRecord, r.Level)
	case r.URL == "":
		return fmt.Errorf("%w: missing url", ErrMalformedRecord)
	case r.Error != "" && len(r.Result) > 0 && !isJSONNull(r.Result):
		return fmt.Errorf("%w: both result and error set", ErrMalformedRecord)
	}
	return nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
