package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/studiowebux/symanto/internal/symanto"
)

// DefaultBarWidth is the number of cells in a probability bar
const DefaultBarWidth = 20

const ruleWidth = 40

// Printer renders analysis responses as terminal reports
type Printer struct {
	w        io.Writer
	r        *lipgloss.Renderer
	barWidth int
}

// PrinterOption configures a Printer
type PrinterOption func(*Printer)

// WithoutColor forces plain output regardless of the terminal
func WithoutColor() PrinterOption {
	return func(p *Printer) {
		p.r.SetColorProfile(termenv.Ascii)
	}
}

// WithBarWidth overrides DefaultBarWidth
func WithBarWidth(width int) PrinterOption {
	return func(p *Printer) {
		if width > 0 {
			p.barWidth = width
		}
	}
}

// NewPrinter creates a Printer writing to w. Color is enabled only when w
// is a color-capable terminal.
func NewPrinter(w io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{
		w:        w,
		r:        lipgloss.NewRenderer(w),
		barWidth: DefaultBarWidth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Printer) style(color string) lipgloss.Style {
	s := p.r.NewStyle()
	if color != "" {
		s = s.Foreground(lipgloss.Color(color))
	}
	return s
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Title prints a section heading and its underline
func (p *Printer) Title(title string) {
	p.println()
	p.println(p.style(colorCyan).Bold(true).Render(title))
	p.println(p.style(colorGray).Render(strings.Repeat("─", ruleWidth)))
}

// Notice prints a yellow informational line
func (p *Printer) Notice(msg string) {
	p.println(p.style(colorYellow).Render(msg))
}

// Success prints a green confirmation line
func (p *Printer) Success(msg string) {
	p.println(p.style(colorGreen).Render(msg))
}

// Field prints an indented "key: value" line
func (p *Printer) Field(key, value string) {
	p.println(fmt.Sprintf("  %s: %s", p.style("").Bold(true).Render(key), value))
}

// Subtle renders text in gray
func (p *Printer) Subtle(text string) string {
	return p.style(colorGray).Render(text)
}

// BarCells returns the number of filled cells for probability v
func BarCells(v float64, width int) int {
	filled := int(math.Round(v * float64(width)))
	if filled < 0 {
		return 0
	}
	if filled > width {
		return width
	}
	return filled
}

// Percent formats a probability as a percentage with one decimal
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func (p *Printer) bar(v float64) string {
	filled := BarCells(v, p.barWidth)
	return p.style(colorGreen).Render(strings.Repeat("█", filled)) +
		p.style(colorGray).Render(strings.Repeat("░", p.barWidth-filled))
}

func (p *Printer) pct(v float64) string {
	return p.style("").Bold(true).Render(Percent(v))
}

func (p *Printer) predictionRow(pred Prediction, labelWidth int, color string) {
	label := runewidth.FillRight(pred.Label, labelWidth)
	p.println(fmt.Sprintf("  %s  %s %s", p.style(color).Render(label), p.bar(pred.Probability), p.pct(pred.Probability)))
}

func (p *Printer) summary(caption, value, color string) {
	p.println()
	p.println(p.Subtle("  "+caption+": ") + p.style(color).Bold(true).Render(value))
}

// predictionsOrNotice returns the predictions or prints the no-data notice
func (p *Printer) predictionsOrNotice(raw json.RawMessage, what string) ([]Prediction, bool) {
	record, ok := FirstRecord(raw)
	if ok {
		if predictions, ok := record.Predictions(); ok {
			return predictions, true
		}
	}
	p.Notice(fmt.Sprintf("No %s data returned.", what))
	return nil, false
}

// Sentiment renders a sentiment report with a verdict line
func (p *Printer) Sentiment(raw json.RawMessage) {
	predictions, ok := p.predictionsOrNotice(raw, "sentiment")
	if !ok {
		return
	}

	p.Title("Sentiment Analysis")
	for _, pred := range predictions {
		p.predictionRow(pred, 10, sentimentColor(pred.Label))
	}

	top, _ := Top(predictions)
	p.summary("Verdict", strings.ToUpper(top.Label), sentimentColor(top.Label))
}

// Emotion renders emotions sorted by probability
func (p *Printer) Emotion(raw json.RawMessage) {
	predictions, ok := p.predictionsOrNotice(raw, "emotion")
	if !ok {
		return
	}
	p.Title("Emotion Analysis")
	top := p.sortedRows(predictions, 14, emotionColors)
	p.summary("Dominant emotion", top.Label, labelColor(emotionColors, top.Label))
}

// Ekman renders Ekman emotions sorted by probability
func (p *Printer) Ekman(raw json.RawMessage) {
	predictions, ok := p.predictionsOrNotice(raw, "Ekman emotion")
	if !ok {
		return
	}
	p.Title("Ekman Emotion Analysis")
	top := p.sortedRows(predictions, 10, ekmanColors)
	p.summary("Dominant", top.Label, labelColor(ekmanColors, top.Label))
}

// Personality renders personality traits sorted by probability
func (p *Printer) Personality(raw json.RawMessage) {
	predictions, ok := p.predictionsOrNotice(raw, "personality")
	if !ok {
		return
	}
	p.Title("Personality Traits")
	p.sortedRows(predictions, 12, traitColors)
}

// Communication renders communication styles sorted by probability
func (p *Printer) Communication(raw json.RawMessage) {
	predictions, ok := p.predictionsOrNotice(raw, "communication")
	if !ok {
		return
	}
	p.Title("Communication & Tonality")
	top := p.sortedRows(predictions, 18, nil)
	p.summary("Style", top.Label, colorCyan)
}

// sortedRows prints predictions by descending probability and returns the top one
func (p *Printer) sortedRows(predictions []Prediction, labelWidth int, colors map[string]string) Prediction {
	sorted := SortByProbability(predictions)
	for _, pred := range sorted {
		p.predictionRow(pred, labelWidth, labelColor(colors, pred.Label))
	}
	return sorted[0]
}

// Language renders the detected language
func (p *Printer) Language(raw json.RawMessage) {
	record, ok := FirstRecord(raw)
	if !ok {
		p.Notice("No language data returned.")
		return
	}
	p.Title("Language Detection")
	p.println("  Detected language: " + p.style(colorGreen).Bold(true).Render(record.LanguageLabel()))
}

// TopicSentiment renders each topic with its sentiment and optional score
func (p *Printer) TopicSentiment(raw json.RawMessage) {
	record, ok := FirstRecord(raw)
	if !ok {
		p.Notice("No topic-sentiment data returned.")
		return
	}
	p.Title("Topic Sentiment Analysis")

	topics := record.Topics()
	if len(topics) == 0 {
		p.println(p.Subtle("  No topics detected."))
		return
	}

	for _, topic := range topics {
		line := fmt.Sprintf("  %s %s",
			p.style(colorWhite).Render(runewidth.FillRight(topic.Label, 20)),
			p.style(topicColor(topic.Sentiment)).Render(topic.Sentiment))
		if topic.Score != nil {
			line += " " + p.pct(*topic.Score)
		}
		p.println(line)
	}
}

// Analyze renders the combined sentiment, emotion and personality report
func (p *Printer) Analyze(sentiment, emotion, personality json.RawMessage) {
	p.println()
	p.println(p.style(colorMagenta).Bold(true).Render("Full Text Analysis"))
	p.println(p.Subtle(strings.Repeat("═", ruleWidth)))
	p.Sentiment(sentiment)
	p.Emotion(emotion)
	p.Personality(personality)
}

// Render dispatches to the report for kind
func (p *Printer) Render(kind symanto.Kind, raw json.RawMessage) {
	switch kind {
	case symanto.KindSentiment:
		p.Sentiment(raw)
	case symanto.KindEmotion:
		p.Emotion(raw)
	case symanto.KindEkmanEmotion:
		p.Ekman(raw)
	case symanto.KindLanguageDetection:
		p.Language(raw)
	case symanto.KindPersonality:
		p.Personality(raw)
	case symanto.KindCommunication:
		p.Communication(raw)
	case symanto.KindTopicSentiment:
		p.TopicSentiment(raw)
	default:
		p.Notice(fmt.Sprintf("No renderer for %s.", kind))
	}
}
