package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 10 << 10

// Body decoding errors
var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrBodyTooLarge  = errors.New("request body too large")
	ErrMalformedBody = errors.New("request body is not valid JSON")
)

// DecodeJSON decodes a single JSON value from the request body into v,
// reading at most limit bytes. Trailing data after the value is rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v interface{}) error {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return classifyDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedBody)
		}
		return classifyDecodeError(err)
	}
	return nil
}

func classifyDecodeError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	default:
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
}
