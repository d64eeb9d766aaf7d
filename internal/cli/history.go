package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studiowebux/symanto/internal/report"
	"github.com/studiowebux/symanto/internal/types"
	"gopkg.in/yaml.v3"
)

// HistoryListOptions contains options for history list
type HistoryListOptions struct {
	Limit  int
	Search string
	JSON   bool
	YAML   bool
}

func (e *Env) requireHistory() error {
	if e.History == nil {
		return fmt.Errorf("history database is not available")
	}
	return nil
}

// HistoryList prints recorded analyses, newest first
func HistoryList(env *Env, opts HistoryListOptions) error {
	if err := env.requireHistory(); err != nil {
		return err
	}

	var (
		entries []types.HistoryEntry
		err     error
	)
	if opts.Search != "" {
		entries, err = env.History.Search(opts.Search, opts.Limit)
	} else {
		entries, err = env.History.List(opts.Limit)
	}
	if err != nil {
		return err
	}

	switch {
	case opts.JSON:
		if entries == nil {
			entries = []types.HistoryEntry{}
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		return report.WriteJSON(env.stdout(), data, !env.NoColor && isTerminal(env.stdout()))
	case opts.YAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		_, err = env.stdout().Write(data)
		return err
	}

	env.printer().History(entries)
	return nil
}

// HistoryShow re-renders one stored analysis. With raw output the stored
// response is written as it was received.
func HistoryShow(ctx context.Context, env *Env, id int64, opts OutputOptions) error {
	if err := env.requireHistory(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	entry, err := env.History.Get(id)
	if err != nil {
		return err
	}

	if opts.Raw() {
		if len(entry.Response) == 0 {
			return fmt.Errorf("history entry %d has no stored response", id)
		}
		return env.writeRaw(ctx, opts, entry.Response)
	}

	env.printer().HistoryEntry(*entry)
	return nil
}

// HistoryStats prints per-kind usage
func HistoryStats(env *Env) error {
	if err := env.requireHistory(); err != nil {
		return err
	}

	stats, err := env.History.Stats()
	if err != nil {
		return err
	}
	env.printer().Stats(stats)
	return nil
}

// HistoryClear deletes every recorded analysis
func HistoryClear(env *Env) error {
	if err := env.requireHistory(); err != nil {
		return err
	}

	count, err := env.History.GetCount()
	if err != nil {
		return err
	}
	if err := env.History.Clear(); err != nil {
		return err
	}
	env.printer().Success(fmt.Sprintf("Cleared %d history entries.", count))
	return nil
}
