package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend is inconsistent about wrapping: a list comes back as a bare
// array, as {"data": [...]}, as a paginator {"data": {"data": [...]}} or under
// the resource name, e.g. {"tables": [...]}. Everything is unwrapped here so
// callers only ever see the DTO.

func decodeList[T any](body []byte, key string) ([]T, error) {
	raw, err := unwrap(bytes.TrimSpace(body), key, '[', 3)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding %s list: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func decodeOne[T any](body []byte, key string) (T, error) {
	var out T
	raw, err := unwrap(bytes.TrimSpace(body), key, '{', 2)
	if err != nil {
		return out, err
	}
	if raw == nil {
		return out, fmt.Errorf("decoding %s: empty body", key)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decoding %s: %w", key, err)
	}
	return out, nil
}

// unwrap descends through "data" or key wrappers until it reaches a value
// starting with want. For objects (want == '{') a wrapper is only followed if
// it holds an object itself, which keeps a plain DTO intact.
func unwrap(raw []byte, key string, want byte, depth int) ([]byte, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if want == '[' && raw[0] == '[' {
		return raw, nil
	}
	if raw[0] != '{' {
		return nil, fmt.Errorf("decoding %s: unexpected response shape", key)
	}
	if depth == 0 {
		if want == '{' {
			return raw, nil
		}
		return nil, fmt.Errorf("decoding %s: no list found in response", key)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}

	for _, k := range []string{"data", key} {
		inner, ok := fields[k]
		if !ok || k == "" {
			continue
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) == 0 {
			continue
		}
		if want == '[' && (inner[0] == '[' || inner[0] == '{') {
			return unwrap(inner, key, want, depth-1)
		}
		if want == '{' && inner[0] == '{' {
			return unwrap(inner, key, want, depth-1)
		}
	}

	if want == '{' {
		return raw, nil
	}
	return nil, fmt.Errorf("decoding %s: no list found in response", key)
}
