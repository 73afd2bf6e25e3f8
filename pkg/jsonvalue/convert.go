package jsonvalue

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"
)

// FromAny converts a generic Go value (as produced by encoding/json, yaml.v3,
// go-toml or a CEL evaluation) into a Value. Unordered Go maps yield objects
// with keys in ascending order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case []byte:
		return String(string(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("number %s: %w", t, err)
		}
		return Number(f)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		if reflect.ValueOf(x).Kind() != reflect.Map && reflect.ValueOf(x).Kind() != reflect.Slice {
			return String(t.String()), nil
		}
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() { //nolint:exhaustive // remaining kinds go through encoding/json
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("element [%d]: %w", i, err)
			}
			items[i] = item
		}
		return Value{kind: KindArray, items: items}, nil
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := fmt.Sprint(k.Interface())
			keys = append(keys, ks)
			byKey[ks] = rv.MapIndex(k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			val, err := FromAny(byKey[k].Interface())
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			members[i] = Member{Key: k, Value: val}
		}
		return Object(members...), nil
	default:
		// Structs and other types round-trip through encoding/json so tags are honored.
		data, err := json.Marshal(x)
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %T: %w", x, err)
		}
		return Parse(data)
	}
}

// ToAny converts v into the generic representation used by encoding/json:
// map[string]any, []any, float64, string, bool and nil. Member order is lost.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = ToAny(item)
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = ToAny(m.Value)
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler so Values embed cleanly in other documents.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v), nil
}

// UnmarshalJSON implements json.Unmarshaler with member order preserved.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
