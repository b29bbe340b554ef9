package services

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the {success, message, data} wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeData unwraps env.Data, optionally descending into key, into v.
func decodeData(env envelope, key string, v any) error {
	raw := env.Data
	if isNull(raw) {
		return nil
	}
	if key != "" {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
		inner, ok := obj[key]
		if !ok || isNull(inner) {
			return nil
		}
		raw = inner
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", keyOrData(key), err)
	}
	return nil
}

// decodeList accepts data as a bare array, as {key: [...]}, or as a
// paginator object {data: [...]}.
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	if isNull(raw) {
		return []T{}, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	for _, k := range []string{key, "data"} {
		if k == "" {
			continue
		}
		if inner, ok := obj[k]; ok && !isNull(inner) {
			return decodeList[T](inner, "")
		}
	}
	return []T{}, nil
}

// decodeItem decodes data.key when present, otherwise data itself.
func decodeItem(env envelope, key string, v any) error {
	if hasKey(env.Data, key) {
		return decodeData(env, key, v)
	}
	return decodeData(env, "", v)
}

func hasKey(raw json.RawMessage, key string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, ok := obj[key]
	return ok
}

func keyOrData(key string) string {
	if key == "" {
		return "data"
	}
	return "data." + key
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
