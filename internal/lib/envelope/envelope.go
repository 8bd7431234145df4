// Package envelope unwraps the {success, data, message} answers of the
// school API. Endpoints disagree on nesting: data may be the record, a list,
// a paginator object, or any of those wrapped in a one-element array.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope is the outer shape shared by every endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Meta is the paginator part of a list answer.
type Meta struct {
	Page     int `json:"page"`
	LastPage int `json:"last_page"`
	Total    int `json:"total"`
	PerPage  int `json:"per_page"`
}

// Result is the normalized list view of any envelope.
type Result struct {
	Items []json.RawMessage
	Meta  *Meta
}

// maxDepth bounds the unwrapping of nested data keys.
const maxDepth = 8

func Parse(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// Normalize never fails: anything it cannot read yields an empty result.
func Normalize(body []byte) Result {
	env, err := Parse(body)
	if err != nil || !env.Success {
		return Result{Items: []json.RawMessage{}}
	}
	return NormalizeData(env.Data)
}

// NormalizeData works on the content of the data key.
func NormalizeData(data json.RawMessage) Result {
	res, ok := unwrap(data, 0)
	if !ok {
		return Result{Items: []json.RawMessage{}}
	}
	return res
}

func unwrap(data json.RawMessage, depth int) (Result, bool) {
	data = bytes.TrimSpace(data)
	if depth > maxDepth {
		return Result{}, false
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Result{Items: []json.RawMessage{}}, true
	}

	switch data[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return Result{}, false
		}
		if len(list) == 1 && exposesData(list[0]) {
			return unwrap(list[0], depth+1)
		}
		return Result{Items: list}, true

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return Result{}, false
		}
		inner, ok := obj["data"]
		if !ok {
			return Result{Items: []json.RawMessage{data}}, true
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '[' {
			var list []json.RawMessage
			if err := json.Unmarshal(inner, &list); err != nil {
				return Result{}, false
			}
			if len(list) == 1 && exposesData(list[0]) {
				return unwrap(list[0], depth+1)
			}
			return Result{Items: list, Meta: readMeta(obj)}, true
		}
		if exposesData(inner) {
			return unwrap(inner, depth+1)
		}
		// a record that happens to carry a non-list data field
		return Result{Items: []json.RawMessage{data}}, true
	}

	return Result{}, false
}

// exposesData reports whether raw is an object with an array or a nested
// paginator under data.
func exposesData(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	inner, ok := obj["data"]
	if !ok {
		return false
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) == 0 {
		return false
	}
	if inner[0] == '[' {
		return true
	}
	return exposesData(inner)
}

func readMeta(obj map[string]json.RawMessage) *Meta {
	keys := []string{"current_page", "last_page", "total", "per_page"}
	found := false
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	return &Meta{
		Page:     flexInt(obj["current_page"]),
		LastPage: flexInt(obj["last_page"]),
		Total:    flexInt(obj["total"]),
		PerPage:  flexInt(obj["per_page"]),
	}
}

// flexInt reads a JSON number or a numeric string; anything else is 0.
func flexInt(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	return 0
}

// Decode converts the raw items into T.
func Decode[T any](res Result) ([]T, error) {
	out := make([]T, 0, len(res.Items))
	for i, raw := range res.Items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// First decodes the first item, reporting false when there is none.
func First[T any](res Result) (T, bool, error) {
	var v T
	if len(res.Items) == 0 {
		return v, false, nil
	}
	if err := json.Unmarshal(res.Items[0], &v); err != nil {
		return v, false, fmt.Errorf("decode item: %w", err)
	}
	return v, true, nil
}
