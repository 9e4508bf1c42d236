package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dbsmedya/stackburn/internal/types"
)

// ErrEmpty is returned when a payload document has no content.
var ErrEmpty = errors.New("empty payload")

// SourceError reports a payload that could not be decoded. It is scoped to
// one source; payloads of other sources are unaffected.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s payload: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// DecodeLocal decodes a local scanner payload.
func DecodeLocal(data []byte) (*Local, error) {
	var p Local
	if err := decode(types.SourceLocal, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeCloud decodes a cloud file store payload.
func DecodeCloud(data []byte) (*Cloud, error) {
	var p Cloud
	if err := decode(types.SourceCloud, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeCodeHosting decodes a code hosting payload.
func DecodeCodeHosting(data []byte) (*CodeHosting, error) {
	var p CodeHosting
	if err := decode(types.SourceCodeHosting, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decode(source string, data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &SourceError{Source: source, Err: ErrEmpty}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &SourceError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
