package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/studiowebux/symanto/internal/symanto"
)

func render(fn func(p *Printer)) string {
	var buf bytes.Buffer
	fn(NewPrinter(&buf, WithoutColor()))
	return buf.String()
}

func TestBarCells(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{0.82, 16},
		{0.18, 4},
		{0, 0},
		{1, 20},
		{0.025, 1},
		{1.7, 20},
		{-0.5, 0},
	}
	for _, tt := range tests {
		if got := BarCells(tt.v, DefaultBarWidth); got != tt.want {
			t.Errorf("BarCells(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.823); got != "82.3%" {
		t.Errorf("Percent(0.823) = %q", got)
	}
	if got := Percent(1); got != "100.0%" {
		t.Errorf("Percent(1) = %q", got)
	}
}

func TestPrinter_Sentiment(t *testing.T) {
	raw := json.RawMessage(`[{"id":"1","predictions":[{"prediction":"positive","probability":0.82},{"prediction":"negative","probability":0.18}]}]`)
	out := render(func(p *Printer) { p.Sentiment(raw) })

	want := "\nSentiment Analysis\n" +
		strings.Repeat("─", 40) + "\n" +
		"  positive    " + strings.Repeat("█", 16) + strings.Repeat("░", 4) + " 82.0%\n" +
		"  negative    " + strings.Repeat("█", 4) + strings.Repeat("░", 16) + " 18.0%\n" +
		"\n  Verdict: POSITIVE\n"

	if out != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", out, want)
	}
}

func TestPrinter_EmotionSortsDescending(t *testing.T) {
	raw := json.RawMessage(`[{"predictions":[{"prediction":"joy","probability":0.3},{"prediction":"anger","probability":0.6}]}]`)
	out := render(func(p *Printer) { p.Emotion(raw) })

	anger := strings.Index(out, "anger")
	joy := strings.Index(out, "joy")
	if anger < 0 || joy < 0 || anger > joy {
		t.Errorf("expected anger before joy:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n  Dominant emotion: anger\n") {
		t.Errorf("missing dominant emotion line:\n%s", out)
	}
	if !strings.Contains(out, "  anger           "+strings.Repeat("█", 12)) {
		t.Errorf("expected label padded to 14 cells:\n%q", out)
	}
}

func TestPrinter_EkmanAndCommunicationSummaries(t *testing.T) {
	raw := json.RawMessage(`[{"predictions":[{"prediction":"fear","probability":0.1},{"prediction":"surprise","probability":0.9}]}]`)

	if out := render(func(p *Printer) { p.Ekman(raw) }); !strings.HasSuffix(out, "  Dominant: surprise\n") {
		t.Errorf("unexpected ekman output:\n%s", out)
	}
	if out := render(func(p *Printer) { p.Communication(raw) }); !strings.HasSuffix(out, "  Style: surprise\n") {
		t.Errorf("unexpected communication output:\n%s", out)
	}
}

func TestPrinter_PersonalityHasNoSummary(t *testing.T) {
	raw := json.RawMessage(`[{"predictions":[{"prediction":"Introvert","probability":0.4},{"prediction":"Extrovert","probability":0.6}]}]`)
	out := render(func(p *Printer) { p.Personality(raw) })

	if !strings.Contains(out, "Personality Traits") {
		t.Errorf("missing title:\n%s", out)
	}
	if strings.Contains(out, "Dominant") || strings.Contains(out, "Verdict") {
		t.Errorf("personality should not print a summary:\n%s", out)
	}
	if strings.Index(out, "Extrovert") > strings.Index(out, "Introvert") {
		t.Errorf("expected Extrovert first:\n%s", out)
	}
}

func TestPrinter_NoDataNotices(t *testing.T) {
	tests := []struct {
		name string
		fn   func(p *Printer, raw json.RawMessage)
		raw  string
		want string
	}{
		{"sentiment missing predictions", (*Printer).Sentiment, `[{"id":"1"}]`, "No sentiment data returned.\n"},
		{"sentiment empty predictions", (*Printer).Sentiment, `[{"predictions":[]}]`, "No sentiment data returned.\n"},
		{"emotion empty array", (*Printer).Emotion, `[]`, "No emotion data returned.\n"},
		{"ekman", (*Printer).Ekman, `[{}]`, "No Ekman emotion data returned.\n"},
		{"personality", (*Printer).Personality, `{}`, "No personality data returned.\n"},
		{"communication", (*Printer).Communication, `[{"predictions":"x"}]`, "No communication data returned.\n"},
		{"language", (*Printer).Language, `[]`, "No language data returned.\n"},
		{"topic", (*Printer).TopicSentiment, `[]`, "No topic-sentiment data returned.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(func(p *Printer) { tt.fn(p, json.RawMessage(tt.raw)) })
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestPrinter_Language(t *testing.T) {
	out := render(func(p *Printer) { p.Language(json.RawMessage(`[{"id":"1","detected_language":"de"}]`)) })
	if !strings.HasSuffix(out, "  Detected language: de\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "█") || strings.Contains(out, "%") {
		t.Errorf("language detection should not render bars:\n%s", out)
	}
}

func TestPrinter_TopicSentimentEmpty(t *testing.T) {
	out := render(func(p *Printer) { p.TopicSentiment(json.RawMessage(`[{"topics":[]}]`)) })
	want := "\nTopic Sentiment Analysis\n" + strings.Repeat("─", 40) + "\n  No topics detected.\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestPrinter_TopicSentimentRows(t *testing.T) {
	raw := json.RawMessage(`[{"topics":[{"topic":"price","sentiment":"negative","score":0.5},{"category":"staff","prediction":"positive"}]}]`)
	out := render(func(p *Printer) { p.TopicSentiment(raw) })

	if !strings.Contains(out, "  price                negative 50.0%\n") {
		t.Errorf("missing price row:\n%q", out)
	}
	if !strings.Contains(out, "  staff                positive\n") {
		t.Errorf("missing staff row:\n%q", out)
	}
}

func TestPrinter_AnalyzeOrder(t *testing.T) {
	sentiment := json.RawMessage(`[{"predictions":[{"prediction":"positive","probability":0.9}]}]`)
	emotion := json.RawMessage(`[{"predictions":[{"prediction":"joy","probability":0.9}]}]`)
	personality := json.RawMessage(`[{"predictions":[{"prediction":"Thinking","probability":0.9}]}]`)

	out := render(func(p *Printer) { p.Analyze(sentiment, emotion, personality) })

	positions := []int{
		strings.Index(out, "Full Text Analysis"),
		strings.Index(out, "Sentiment Analysis"),
		strings.Index(out, "Emotion Analysis"),
		strings.Index(out, "Personality Traits"),
	}
	for i := 1; i < len(positions); i++ {
		if positions[i-1] < 0 || positions[i] < positions[i-1] {
			t.Fatalf("sections out of order %v:\n%s", positions, out)
		}
	}
	if !strings.Contains(out, strings.Repeat("═", 40)) {
		t.Error("missing double rule under header")
	}
}

func TestPrinter_RenderDispatch(t *testing.T) {
	raw := json.RawMessage(`[{"predictions":[{"prediction":"negative","probability":0.7}],"language":"en"}]`)
	titles := map[symanto.Kind]string{
		symanto.KindSentiment:         "Sentiment Analysis",
		symanto.KindEmotion:           "Emotion Analysis",
		symanto.KindEkmanEmotion:      "Ekman Emotion Analysis",
		symanto.KindLanguageDetection: "Language Detection",
		symanto.KindPersonality:       "Personality Traits",
		symanto.KindCommunication:     "Communication & Tonality",
		symanto.KindTopicSentiment:    "Topic Sentiment Analysis",
	}
	for kind, title := range titles {
		out := render(func(p *Printer) { p.Render(kind, raw) })
		if !strings.Contains(out, title) {
			t.Errorf("Render(%s) missing %q:\n%s", kind, title, out)
		}
	}
}

func TestPrinter_WithBarWidth(t *testing.T) {
	raw := json.RawMessage(`[{"predictions":[{"prediction":"positive","probability":0.5}]}]`)
	var buf bytes.Buffer
	NewPrinter(&buf, WithoutColor(), WithBarWidth(10)).Sentiment(raw)
	if !strings.Contains(buf.String(), strings.Repeat("█", 5)+strings.Repeat("░", 5)+" ") {
		t.Errorf("expected 10-cell bar:\n%s", buf.String())
	}
}
