package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/studiowebux/symanto/internal/history"
	"github.com/studiowebux/symanto/internal/types"
)

func newHistoryEnv(t *testing.T) (*Env, *history.Manager) {
	t.Helper()
	manager, err := history.NewManager(":memory:")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	env, _ := newTestEnv(t, "")
	env.History = manager
	return env, manager
}

func TestHistoryCommands_RequireDatabase(t *testing.T) {
	env, _ := newTestEnv(t, "")

	if err := HistoryList(env, HistoryListOptions{}); err == nil {
		t.Error("HistoryList should fail without a database")
	}
	if err := HistoryStats(env); err == nil {
		t.Error("HistoryStats should fail without a database")
	}
}

func TestHistoryList_JSON(t *testing.T) {
	env, manager := newHistoryEnv(t)
	out := env.Stdout.(interface{ String() string })

	manager.Save(types.HistoryEntry{Kind: "sentiment", Text: "great day", Status: 200, Response: json.RawMessage(`[]`)})
	manager.Save(types.HistoryEntry{Kind: "emotion", Text: "awful weather", Status: 200})

	if err := HistoryList(env, HistoryListOptions{JSON: true, Search: "great"}); err != nil {
		t.Fatalf("HistoryList failed: %v", err)
	}

	var entries []types.HistoryEntry
	if err := json.Unmarshal([]byte(out.String()), &entries); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if len(entries) != 1 || entries[0].Text != "great day" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestHistoryList_EmptyJSONIsArray(t *testing.T) {
	env, _ := newHistoryEnv(t)
	out := env.Stdout.(interface{ String() string })

	if err := HistoryList(env, HistoryListOptions{JSON: true}); err != nil {
		t.Fatalf("HistoryList failed: %v", err)
	}
	if out.String() != "[]\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestHistoryShow(t *testing.T) {
	env, manager := newHistoryEnv(t)
	out := env.Stdout.(interface{ String() string })

	raw := `[{"id":"1","predictions":[{"prediction":"positive","probability":0.82}]}]`
	id, err := manager.Save(types.HistoryEntry{Kind: "sentiment", Text: "nice", Language: "en", Status: 200, Response: json.RawMessage(raw)})
	if err != nil {
		t.Fatal(err)
	}

	if err := HistoryShow(context.Background(), env, id, OutputOptions{}); err != nil {
		t.Fatalf("HistoryShow failed: %v", err)
	}
	if !strings.Contains(out.String(), "Verdict: POSITIVE") {
		t.Errorf("expected stored report:\n%s", out.String())
	}

	if err := HistoryShow(context.Background(), env, id+100, OutputOptions{}); err == nil {
		t.Error("expected error for missing entry")
	}
}

func TestHistoryShow_RawWithoutResponse(t *testing.T) {
	env, manager := newHistoryEnv(t)

	id, _ := manager.Save(types.HistoryEntry{Kind: "sentiment", Text: "x", Status: 401, Error: "Symanto API error 401: invalid key"})
	if err := HistoryShow(context.Background(), env, id, OutputOptions{JSON: true}); err == nil {
		t.Error("expected error when no response is stored")
	}
}

func TestHistoryClear(t *testing.T) {
	env, manager := newHistoryEnv(t)
	out := env.Stdout.(interface{ String() string })

	manager.Save(types.HistoryEntry{Kind: "sentiment", Text: "a"})
	manager.Save(types.HistoryEntry{Kind: "sentiment", Text: "b"})

	if err := HistoryClear(env); err != nil {
		t.Fatalf("HistoryClear failed: %v", err)
	}
	if out.String() != "Cleared 2 history entries.\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if count, _ := manager.GetCount(); count != 0 {
		t.Errorf("expected 0 entries, got %d", count)
	}
}
