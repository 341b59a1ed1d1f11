package audit

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// date layouts accepted when normalizing string values for comparison. A
// time.Time and a string naming the same instant must compare equal.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ComputeDiff compares two snapshots field by field and returns the changes in
// deterministic (sorted) field order.
//
//   - only fields whose normalized values differ are emitted
//   - fields present in before but absent from after emit {before: v, after: null}
//   - dates are normalized to a canonical UTC instant before comparison
//   - nested values are compared by canonical-JSON serialization
//
// A nil snapshot acts as an empty one, so ComputeDiff(nil, after) yields the
// full creation image and ComputeDiff(before, nil) the full deletion image.
func ComputeDiff(before, after map[string]any) []FieldChange {
	fields := make([]string, 0, len(before)+len(after))
	seen := make(map[string]struct{}, len(before)+len(after))
	for name := range after {
		fields = append(fields, name)
		seen[name] = struct{}{}
	}
	for name := range before {
		if _, ok := seen[name]; !ok {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)

	changes := make([]FieldChange, 0, len(fields))
	for _, name := range fields {
		beforeVal, inBefore := before[name]
		afterVal, inAfter := after[name]

		switch {
		case inBefore && !inAfter:
			// dropped field: explicit {before, after: null}
			if normalize(beforeVal) == normalize(nil) {
				continue
			}
			changes = append(changes, FieldChange{Field: name, Before: FromAny(beforeVal), After: Null()})
		case !inBefore && inAfter:
			if normalize(afterVal) == normalize(nil) {
				continue
			}
			changes = append(changes, FieldChange{Field: name, Before: Null(), After: FromAny(afterVal)})
		default:
			if normalize(beforeVal) == normalize(afterVal) {
				continue
			}
			changes = append(changes, FieldChange{Field: name, Before: FromAny(beforeVal), After: FromAny(afterVal)})
		}
	}
	return changes
}

// normalize reduces a value to a comparison key. The kind prefix keeps
// distinct types from colliding (the string "true" vs the bool true).
func normalize(v any) string {
	switch t := v.(type) {
	case nil:
		return "z"
	case time.Time:
		return "t:" + t.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return "z"
		}
		return "t:" + t.UTC().Format(time.RFC3339Nano)
	case string:
		for _, layout := range instantLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return "t:" + parsed.UTC().Format(time.RFC3339Nano)
			}
		}
		return "s:" + t
	case bool:
		return "b:" + strconv.FormatBool(t)
	case int:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case int32:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case int64:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case float32:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case float64:
		return "n:" + strconv.FormatFloat(t, 'g', -1, 64)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "s:" + t.String()
	default:
		raw, err := canonicalJSON(v)
		if err != nil {
			return "e:" + err.Error()
		}
		return "j:" + string(raw)
	}
}
