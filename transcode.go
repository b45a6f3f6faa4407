package beans

import (
	"fmt"

	"github.com/goccy/go-json"
)

// transcode serializes the input to JSON and deserializes it into the target output.
// This is a lossy mapping if source and destination do not have compatible JSON structures.
func transcode[Input any, Output any](input Input, output *Output) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("beans: marshal failed: %w", err)
	}
	if err = json.Unmarshal(data, output); err != nil {
		return fmt.Errorf("beans: unmarshal failed: %w", err)
	}
	return nil
}

// Transcode converts src into a fresh T through a JSON round-trip. Unlike Copy it
// reaches nested structs, slices and maps, matching by json tags; it allocates
// everything anew, so the result shares no memory with src.
// An absent src yields nil.
func Transcode[T any](src any) (*T, error) {
	if isAbsent(src) {
		return nil, nil
	}
	var result T
	if err := transcode(src, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
