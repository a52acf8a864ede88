package models

import "encoding/json"

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
// Numbers decoded by the parser package are json.Number.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Serialize renders a JSONValue as compact JSON text. The output is
// deterministic: encoding/json sorts object keys, and json.Number payloads
// are written verbatim.
func Serialize(v JSONValue) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Normalize converts raw decoder output (map[string]interface{} and
// []interface{}) into JSONObject and JSONArray, recursively. Primitives are
// returned as is.
func Normalize(val JSONValue) JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(JSONObject, len(v))
		for key, value := range v {
			obj[key] = Normalize(value)
		}
		return obj
	case []interface{}:
		arr := make(JSONArray, len(v))
		for i, value := range v {
			arr[i] = Normalize(value)
		}
		return arr
	default:
		return v
	}
}
