package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	stderrors "errors"

	"github.com/mcncl/jsonfuzz/internal/errors"
	"github.com/mcncl/jsonfuzz/models"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`
	root, err := Parse(strings.NewReader(jsonStr))

	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expected := models.JSONObject{
		"name":      "John Doe",
		"age":       json.Number("30"),
		"isStudent": false,
		"city":      nil,
	}

	actual, ok := root.(models.JSONObject)
	if !ok {
		t.Fatalf("Parse() root is not a models.JSONObject, got %T", root)
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Parse() root = %v, want %v", actual, expected)
	}
}

func TestParse_SimpleArray(t *testing.T) {
	jsonStr := `[1, "test", true, null, 3.14]`
	root, err := Parse(strings.NewReader(jsonStr))

	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expected := models.JSONArray{
		json.Number("1"),
		"test",
		true,
		nil,
		json.Number("3.14"),
	}

	actual, ok := root.(models.JSONArray)
	if !ok {
		t.Fatalf("Parse() root is not a models.JSONArray, got %T", root)
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Parse() root = %v, want %v", actual, expected)
	}
}

func TestParse_NestedStructures(t *testing.T) {
	jsonStr := `{"user": {"name": "Jane Doe", "id": 123}, "tags": ["go", "json"]}`
	root, err := Parse(strings.NewReader(jsonStr))

	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	expected := models.JSONObject{
		"user": models.JSONObject{
			"name": "Jane Doe",
			"id":   json.Number("123"),
		},
		"tags": models.JSONArray{"go", "json"},
	}

	if !reflect.DeepEqual(root, models.JSONValue(expected)) {
		t.Errorf("Parse() root = %v, want %v", root, expected)
	}
}

func TestParse_ScalarRoots(t *testing.T) {
	cases := []struct {
		name    string
		jsonStr string
		want    models.JSONValue
	}{
		{"number", `42`, json.Number("42")},
		{"string", `"hello"`, "hello"},
		{"bool", `true`, true},
		{"null", `null`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := Parse(strings.NewReader(tc.jsonStr))
			if err != nil {
				t.Fatalf("Parse(%q) error = %v, wantErr nil", tc.jsonStr, err)
			}
			if !reflect.DeepEqual(root, tc.want) {
				t.Errorf("Parse(%q) = %v (%T), want %v (%T)", tc.jsonStr, root, root, tc.want, tc.want)
			}
		})
	}
}

func TestParse_NumbersStayExact(t *testing.T) {
	root, err := Parse(strings.NewReader(`{"big": 9007199254740993}`))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}

	obj := root.(models.JSONObject)
	num, ok := obj["big"].(json.Number)
	if !ok {
		t.Fatalf("Parse() big is not a json.Number, got %T", obj["big"])
	}
	if num.String() != "9007199254740993" {
		t.Errorf("Parse() big = %s, want 9007199254740993", num)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader("   \n\t "))
	if err == nil {
		t.Fatal("Parse() error = nil, want empty input error")
	}
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("Parse() error = %v, want ErrEmptyInput", err)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"broken": `))
	if err == nil {
		t.Fatal("Parse() error = nil, want parse error")
	}
}

func TestParse_SyntaxErrorReportsOffset(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"a": 1,}`))
	if err == nil {
		t.Fatal("Parse() error = nil, want syntax error")
	}
	if !stderrors.Is(err, errors.ErrInvalidJSON) {
		t.Errorf("Parse() error = %v, want ErrInvalidJSON", err)
	}
}

func TestParse_MultipleRootValues(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"a": 1} {"b": 2}`))
	if err == nil {
		t.Fatal("Parse() error = nil, want multiple values error")
	}
	if !stderrors.Is(err, errors.ErrMultipleJSON) {
		t.Errorf("Parse() error = %v, want ErrMultipleJSON", err)
	}
}

func TestParse_TrailingWhitespaceOK(t *testing.T) {
	root, err := Parse(strings.NewReader(`{"a": 1}` + "  \n\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v, wantErr nil", err)
	}
	if _, ok := root.(models.JSONObject); !ok {
		t.Errorf("Parse() root is not a models.JSONObject, got %T", root)
	}
}

func TestParseString(t *testing.T) {
	root, err := ParseString(`[1, 2, 3]`)
	if err != nil {
		t.Fatalf("ParseString() error = %v, wantErr nil", err)
	}
	arr, ok := root.(models.JSONArray)
	if !ok {
		t.Fatalf("ParseString() root is not a models.JSONArray, got %T", root)
	}
	if len(arr) != 3 {
		t.Errorf("ParseString() len = %d, want 3", len(arr))
	}
}

func TestParseString_Empty(t *testing.T) {
	_, err := ParseString("   ")
	if err == nil {
		t.Fatal("ParseString() error = nil, want empty input error")
	}
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("ParseString() error = %v, want ErrEmptyInput", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte(`{"seed": 12}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	root, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v, wantErr nil", err)
	}
	obj, ok := root.(models.JSONObject)
	if !ok {
		t.Fatalf("ParseFile() root is not a models.JSONObject, got %T", root)
	}
	if obj["seed"] != json.Number("12") {
		t.Errorf("ParseFile() seed = %v, want 12", obj["seed"])
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("ParseFile() error = nil, want not found error")
	}
	if !stderrors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("ParseFile() error = %v, want ErrFileNotFound", err)
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := ParseFile(path)
	if err == nil {
		t.Fatal("ParseFile() error = nil, want empty file error")
	}
	if !stderrors.Is(err, errors.ErrFileEmpty) {
		t.Errorf("ParseFile() error = %v, want ErrFileEmpty", err)
	}
}

func TestParseFile_EmptyPath(t *testing.T) {
	_, err := ParseFile("  ")
	if err == nil {
		t.Fatal("ParseFile() error = nil, want invalid path error")
	}
	if !stderrors.Is(err, errors.ErrInvalidFilePath) {
		t.Errorf("ParseFile() error = %v, want ErrInvalidFilePath", err)
	}
}
