package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"gopkg.in/yaml.v3"
)

// Combined is the raw output of the combined analyze command
type Combined struct {
	Sentiment   json.RawMessage `json:"sentiment"`
	Emotion     json.RawMessage `json:"emotion"`
	Personality json.RawMessage `json:"personality"`
}

// Combine builds the raw object holding all three responses
func Combine(sentiment, emotion, personality json.RawMessage) (json.RawMessage, error) {
	data, err := json.Marshal(Combined{
		Sentiment:   sentiment,
		Emotion:     emotion,
		Personality: personality,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to combine responses: %w", err)
	}
	return data, nil
}

// IndentJSON pretty-prints raw with two-space indentation, keeping key order
func IndentJSON(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format JSON: %w", err)
	}
	return buf.String(), nil
}

// WriteJSON writes raw as indented JSON followed by a newline. When
// highlight is set the output is syntax highlighted for a terminal.
func WriteJSON(w io.Writer, raw []byte, highlight bool) error {
	pretty, err := IndentJSON(raw)
	if err != nil {
		return err
	}
	pretty += "\n"

	if highlight {
		if err := quick.Highlight(w, pretty, "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}

	_, err = io.WriteString(w, pretty)
	return err
}

// WriteYAML writes raw JSON as block-style YAML, keeping key order
func WriteYAML(w io.Writer, raw []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to read JSON for YAML output: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow style inherited from JSON syntax
func blockStyle(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style = 0
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		node.Style = 0
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}
