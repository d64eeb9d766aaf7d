package report

import (
	"bytes"
	"encoding/json"
	"sort"
)

// UnknownLabel stands in for a missing or non-string label
const UnknownLabel = "(unknown)"

// Prediction is one (label, probability) pair from a classifier
type Prediction struct {
	Label       string  `json:"prediction"`
	Probability float64 `json:"probability"`
}

// Topic is one entry of a topic-sentiment result
type Topic struct {
	Label     string
	Sentiment string
	Score     *float64
}

// Record is the single result object of an analysis response
type Record struct {
	fields map[string]json.RawMessage
	raw    json.RawMessage
}

// FirstRecord returns the first result object of a response array.
// ok is false when the response is not an array or its first element is
// not an object.
func FirstRecord(raw json.RawMessage) (*Record, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &fields); err != nil || fields == nil {
		return nil, false
	}

	return &Record{fields: fields, raw: items[0]}, true
}

// Predictions returns the record's predictions. ok is false when the field
// is missing, not an array, or empty.
func (r *Record) Predictions() ([]Prediction, bool) {
	items, ok := r.array("predictions")
	if !ok || len(items) == 0 {
		return nil, false
	}

	predictions := make([]Prediction, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		pred := Prediction{Label: UnknownLabel}
		if label, ok := stringField(fields, "prediction"); ok {
			pred.Label = label
		}
		if p, ok := numberField(fields, "probability"); ok {
			pred.Probability = p
		}
		predictions = append(predictions, pred)
	}

	if len(predictions) == 0 {
		return nil, false
	}
	return predictions, true
}

// LanguageLabel returns the detected language, trying detected_language,
// language and prediction in order, else the whole record as JSON.
func (r *Record) LanguageLabel() string {
	for _, key := range []string{"detected_language", "language", "prediction"} {
		if label, ok := stringField(r.fields, key); ok {
			return label
		}
	}
	return compactJSON(r.raw)
}

// Topics returns the topic list from "topics", else "predictions", else
// an empty list.
func (r *Record) Topics() []Topic {
	items, ok := r.array("topics")
	if !ok {
		items, _ = r.array("predictions")
	}

	topics := make([]Topic, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}

		topic := Topic{Label: UnknownLabel}
		for _, key := range []string{"topic", "category", "label"} {
			if label, ok := stringField(fields, key); ok {
				topic.Label = label
				break
			}
		}
		for _, key := range []string{"sentiment", "prediction"} {
			if sent, ok := stringField(fields, key); ok {
				topic.Sentiment = sent
				break
			}
		}
		if score, ok := numberField(fields, "score"); ok {
			topic.Score = &score
		}
		topics = append(topics, topic)
	}
	return topics
}

// array decodes key as a JSON array. A present non-null value that is not an
// array yields an empty, present list.
func (r *Record) array(key string) ([]json.RawMessage, bool) {
	value, ok := r.fields[key]
	if !ok || isNull(value) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return []json.RawMessage{}, true
	}
	return items, true
}

// SortByProbability returns a copy sorted by descending probability.
// Ties keep their input order.
func SortByProbability(predictions []Prediction) []Prediction {
	sorted := make([]Prediction, len(predictions))
	copy(sorted, predictions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})
	return sorted
}

// Top returns the first prediction with the highest probability
func Top(predictions []Prediction) (Prediction, bool) {
	if len(predictions) == 0 {
		return Prediction{}, false
	}
	top := predictions[0]
	for _, p := range predictions[1:] {
		if p.Probability > top.Probability {
			top = p
		}
	}
	return top, true
}

// stringField returns a non-empty string value
func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	value, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func numberField(fields map[string]json.RawMessage, key string) (float64, bool) {
	value, ok := fields[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		return 0, false
	}
	return f, true
}

func isNull(value json.RawMessage) bool {
	return string(value) == "null"
}

// compactJSON strips whitespace from raw, leaving its keys and characters as sent
func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
