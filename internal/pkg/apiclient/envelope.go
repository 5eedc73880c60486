// internal/pkg/apiclient/envelope.go
package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// UnwrapData returns the "data" member of a response envelope, or raw itself
// when the backend answered without one
func UnwrapData(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	result := gjson.GetBytes(raw, "data")
	if result.Exists() && result.IsObject() {
		return json.RawMessage(result.Raw)
	}
	return raw
}

// UnwrapList accepts a bare array, a page object with "content", or an
// envelope with a "data" array
func UnwrapList(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("[]")
	}
	parsed := gjson.ParseBytes(raw)
	if parsed.IsArray() {
		return raw
	}
	for _, path := range []string{"content", "data", "data.content"} {
		if r := parsed.Get(path); r.IsArray() {
			return json.RawMessage(r.Raw)
		}
	}
	return json.RawMessage("[]")
}

// Decode unmarshals the unwrapped object response into v
func Decode(raw json.RawMessage, v interface{}) error {
	data := UnwrapData(raw)
	if data == nil {
		return fmt.Errorf("empty response")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// DecodeList unmarshals the unwrapped list response into a slice of T
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	var out []T
	if err := json.Unmarshal(UnwrapList(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// String reads a top-level string field such as "token" or "id"
func String(raw json.RawMessage, path string) string {
	if len(raw) == 0 {
		return ""
	}
	return gjson.GetBytes(raw, path).String()
}
