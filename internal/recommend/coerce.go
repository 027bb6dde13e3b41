package recommend

import (
	"math"
	"strconv"
	"strings"
)

// The helpers below are total: any input, including nil, maps to a typed value.

func toNumberOrZero(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toIntOrZero truncates fractional numbers. Numeric strings must be integers.
func toIntOrZero(v any) int {
	if s, ok := v.(string); ok {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return i
	}
	f := toNumberOrZero(v)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func toStringOrEmpty(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// toStringListOrEmpty keeps strings and formats scalar numbers and booleans;
// nested objects, arrays and nulls are dropped.
func toStringListOrEmpty(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case float64:
			out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(s))
		}
	}
	return out
}

func toObject(v any) map[string]any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

// toObjectList returns the object entries of a JSON array; other entries are dropped.
func toObjectList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj := toObject(item); obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

func toStringMap(obj map[string]any) map[string]string {
	out := make(map[string]string, len(obj))
	for k, val := range obj {
		switch s := val.(type) {
		case string:
			out[k] = s
		case float64:
			out[k] = strconv.FormatFloat(s, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(s)
		}
	}
	return out
}

// mapList applies parse to every object entry of v and never returns nil.
func mapList[T any](v any, parse func(map[string]any) T) []T {
	objects := toObjectList(v)
	out := make([]T, 0, len(objects))
	for _, obj := range objects {
		out = append(out, parse(obj))
	}
	return out
}
