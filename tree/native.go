package tree

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/jsonfuzz/models"
)

// maxExactFloat is the largest integer a float64 carries exactly.
const maxExactFloat = 1 << 53

// FromNative maps a native JSON value into the internal tree domain. The
// mapping is total-recursive but partial: any negative, fractional, or
// out-of-range number makes it report false, and a failure anywhere aborts
// the whole mapping, never leaving a partial tree. Rejecting such numbers
// outright (rather than clamping) keeps the mutable domain inside what the
// grammar path already covers. Object keys are visited in sorted order so
// the result is deterministic.
func FromNative(v models.JSONValue) (Value, bool) {
	switch v := v.(type) {
	case nil:
		return NullValue(), true
	case bool:
		return BoolValue(v), true
	case string:
		return StringValue(v), true
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return Value{}, false
		}
		return NumberValue(n), true
	case int:
		if v < 0 {
			return Value{}, false
		}
		return NumberValue(uint64(v)), true
	case int64:
		if v < 0 {
			return Value{}, false
		}
		return NumberValue(uint64(v)), true
	case uint64:
		return NumberValue(v), true
	case float64:
		if v < 0 || v != math.Trunc(v) || v > maxExactFloat {
			return Value{}, false
		}
		return NumberValue(uint64(v)), true
	case models.JSONArray:
		items := make([]Value, len(v))
		for i, elem := range v {
			item, ok := FromNative(elem)
			if !ok {
				return Value{}, false
			}
			items[i] = item
		}
		return ArrayValue(items...), true
	case []interface{}:
		return FromNative(models.Normalize(v))
	case models.JSONObject:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(v))
		for _, key := range keys {
			value, ok := FromNative(v[key])
			if !ok {
				return Value{}, false
			}
			members = append(members, Member{Key: key, Value: value})
		}
		return ObjectValue(members...), true
	case map[string]interface{}:
		return FromNative(models.Normalize(v))
	default:
		return Value{}, false
	}
}

// ToNative maps an internal value back to the native type. The mapping is
// total and lossy: string and key payloads are sanitized, and duplicate
// object keys collapse into one entry. The produced value always survives a
// round trip through the native serializer.
func ToNative(v Value) models.JSONValue {
	switch v.Kind {
	case Null:
		return nil
	case Bool:
		return v.Bool
	case Number:
		return json.Number(strconv.FormatUint(v.Num, 10))
	case String:
		return Sanitize(v.Str)
	case Array:
		arr := make(models.JSONArray, len(v.Items))
		for i, item := range v.Items {
			arr[i] = ToNative(item)
		}
		return arr
	case Object:
		obj := make(models.JSONObject, len(v.Members))
		for _, m := range v.Members {
			obj[Sanitize(m.Key)] = ToNative(m.Value)
		}
		return obj
	default:
		return nil
	}
}

// Sanitize deletes every quote and backslash from s. The result can be
// embedded in JSON text without escaping, so serialized output is never
// corrupted by a string payload.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' {
			return -1
		}
		return r
	}, s)
}
