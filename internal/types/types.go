package types

import "encoding/json"

// HistoryEntry is one recorded analysis request
type HistoryEntry struct {
	ID        int64           `json:"id" yaml:"id"`
	Timestamp string          `json:"timestamp" yaml:"timestamp"`
	Kind      string          `json:"kind" yaml:"kind"`
	Text      string          `json:"text" yaml:"text"`
	Language  string          `json:"language,omitempty" yaml:"language,omitempty"`
	Status    int             `json:"status" yaml:"status"`
	Response  json.RawMessage `json:"response,omitempty" yaml:"-"`
	Duration  int64           `json:"duration" yaml:"duration"` // milliseconds
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the request ended in an error
func (e HistoryEntry) Failed() bool {
	return e.Error != ""
}

// KindStats aggregates history per analysis kind
type KindStats struct {
	Kind          string  `json:"kind" yaml:"kind"`
	Count         int     `json:"count" yaml:"count"`
	Errors        int     `json:"errors" yaml:"errors"`
	AvgDurationMs float64 `json:"avgDurationMs" yaml:"avgDurationMs"`
	LastUsed      string  `json:"lastUsed" yaml:"lastUsed"`
}
