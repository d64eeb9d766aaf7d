package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestCombine_HasExactlyThreeKeys(t *testing.T) {
	sentiment := json.RawMessage(`[{"id":"1","predictions":[]}]`)
	emotion := json.RawMessage(`[{"id":"1"}]`)
	personality := json.RawMessage(`[]`)

	combined, err := Combine(sentiment, emotion, personality)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(combined, &obj); err != nil {
		t.Fatalf("combined output is not an object: %v", err)
	}
	if len(obj) != 3 {
		t.Errorf("expected 3 keys, got %d: %v", len(obj), obj)
	}
	if string(obj["sentiment"]) != string(sentiment) ||
		string(obj["emotion"]) != string(emotion) ||
		string(obj["personality"]) != string(personality) {
		t.Errorf("combined values differ from inputs: %s", combined)
	}
}

func TestWriteJSON_PreservesKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []byte(`[{"z":1,"a":{"y":true}}]`), false); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	want := "[\n  {\n    \"z\": 1,\n    \"a\": {\n      \"y\": true\n    }\n  }\n]\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteJSON_InvalidInput(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []byte(`{nope`), false); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	raw := []byte(`[{"id":"1","predictions":[{"prediction":"positive","probability":0.82}]}]`)
	if err := WriteYAML(&buf, raw); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"- id: \"1\"", "predictions:", "prediction: positive", "probability: 0.82"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "{") {
		t.Errorf("expected block style YAML:\n%s", out)
	}
}
