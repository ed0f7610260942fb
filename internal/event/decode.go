package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload converts an event payload to T. In-process publishers hand
// over T or *T directly; payloads replayed from the dead-letter file arrive
// as generic maps and take the JSON path.
func DecodePayload[T any](input any) (T, error) {
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}

	var out T
	data, err := json.Marshal(input)
	if err != nil {
		return out, fmt.Errorf("encoding payload: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decoding payload into %T: %w", out, err)
	}
	return out, nil
}
