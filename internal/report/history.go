package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/studiowebux/symanto/internal/symanto"
	"github.com/studiowebux/symanto/internal/types"
)

const historyTextWidth = 40

// historyTime shortens an RFC3339 timestamp for listings
func historyTime(timestamp string) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Format("2006-01-02 15:04")
}

func (p *Printer) statusMark(entry types.HistoryEntry) string {
	if entry.Failed() {
		return p.style(colorRed).Render("✖")
	}
	return p.style(colorGreen).Render("✔")
}

// History lists recorded analyses, one per line
func (p *Printer) History(entries []types.HistoryEntry) {
	if len(entries) == 0 {
		p.Notice("No history entries.")
		return
	}

	p.Title("Analysis History")
	for _, entry := range entries {
		text := runewidth.Truncate(strings.Join(strings.Fields(entry.Text), " "), historyTextWidth, "…")
		p.println(fmt.Sprintf("  %s %s  %s  %s  %s",
			p.statusMark(entry),
			p.Subtle(runewidth.FillRight(fmt.Sprintf("#%d", entry.ID), 6)),
			p.Subtle(historyTime(entry.Timestamp)),
			p.style(colorCyan).Render(runewidth.FillRight(entry.Kind, 18)),
			text))
	}
}

// HistoryEntry prints the details of one entry followed by its report
func (p *Printer) HistoryEntry(entry types.HistoryEntry) {
	p.Title(fmt.Sprintf("History Entry #%d", entry.ID))
	p.Field("time", historyTime(entry.Timestamp))
	p.Field("kind", entry.Kind)
	if entry.Language != "" {
		p.Field("language", entry.Language)
	}
	p.Field("text", entry.Text)
	if entry.Status != 0 {
		p.Field("status", fmt.Sprintf("%d", entry.Status))
	}
	p.Field("duration", fmt.Sprintf("%dms", entry.Duration))

	if entry.Failed() {
		p.Field("error", p.style(colorRed).Render(entry.Error))
		return
	}
	if len(entry.Response) == 0 {
		p.Notice("No response stored.")
		return
	}

	kind, err := symanto.ParseKind(entry.Kind)
	if err != nil {
		p.Notice(fmt.Sprintf("No renderer for %s.", entry.Kind))
		return
	}
	p.Render(kind, entry.Response)
}

// Stats prints per-kind usage counts
func (p *Printer) Stats(stats []types.KindStats) {
	if len(stats) == 0 {
		p.Notice("No history entries.")
		return
	}

	p.Title("History Stats")
	total := 0
	for _, s := range stats {
		total += s.Count
		errors := p.Subtle("0 errors")
		if s.Errors > 0 {
			errors = p.style(colorRed).Render(fmt.Sprintf("%d errors", s.Errors))
		}
		p.println(fmt.Sprintf("  %s %s  %s  %s  %s",
			p.style(colorCyan).Render(runewidth.FillRight(s.Kind, 18)),
			p.style("").Bold(true).Render(runewidth.FillLeft(fmt.Sprintf("%d", s.Count), 5)),
			errors,
			p.Subtle(fmt.Sprintf("avg %.0fms", s.AvgDurationMs)),
			p.Subtle("last "+historyTime(s.LastUsed))))
	}
	p.println()
	p.Field("total", fmt.Sprintf("%d", total))
}
