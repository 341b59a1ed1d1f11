package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindNested
)

// Value is a small tagged union for diff payloads: string, number, bool, null
// or an opaque nested JSON document. It marshals to the plain JSON value, so
// stored diffs read naturally ({"before": 15, "after": 17.5}).
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Bool   bool
	Nested json.RawMessage
}

func Null() Value                 { return Value{Kind: KindNull} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }

// FromAny converts an arbitrary snapshot value into a Value. Times become
// RFC3339 strings in UTC; anything that is not a scalar is carried as nested
// canonical JSON.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case time.Time:
		return StringValue(t.UTC().Format(time.RFC3339))
	case *time.Time:
		if t == nil {
			return Null()
		}
		return StringValue(t.UTC().Format(time.RFC3339))
	case int:
		return NumberValue(float64(t))
	case int32:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case float32:
		return NumberValue(float64(t))
	case float64:
		return NumberValue(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return NumberValue(f)
		}
		return StringValue(t.String())
	case fmt.Stringer:
		return StringValue(t.String())
	default:
		raw, err := canonicalJSON(v)
		if err != nil {
			return StringValue(fmt.Sprintf("%v", v))
		}
		return Value{Kind: KindNested, Nested: raw}
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNested:
		if len(v.Nested) == 0 {
			return []byte("null"), nil
		}
		return v.Nested, nil
	default:
		return nil, fmt.Errorf("audit: unknown value kind %d", v.Kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch t := probe.(type) {
	case nil:
		*v = Null()
	case string:
		*v = StringValue(t)
	case float64:
		*v = NumberValue(t)
	case bool:
		*v = BoolValue(t)
	default:
		*v = Value{Kind: KindNested, Nested: append(json.RawMessage(nil), data...)}
	}
	return nil
}

// FieldChange is one entry of a structured diff.
type FieldChange struct {
	Field  string `json:"field"`
	Before Value  `json:"before"`
	After  Value  `json:"after"`
}

// canonicalJSON produces deterministic bytes for structural comparison:
// everything is round-tripped through `any` so map keys come out sorted and
// struct tags collapse to their JSON form.
func canonicalJSON(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
