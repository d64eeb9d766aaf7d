package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/studiowebux/symanto/internal/config"
	"github.com/studiowebux/symanto/internal/filter"
	"github.com/studiowebux/symanto/internal/history"
	"github.com/studiowebux/symanto/internal/report"
	"github.com/studiowebux/symanto/internal/settings"
	"github.com/studiowebux/symanto/internal/spinner"
	"github.com/studiowebux/symanto/internal/symanto"
	"github.com/studiowebux/symanto/internal/types"
	"golang.org/x/sync/errgroup"
)

// Env carries everything a command needs from the process
type Env struct {
	Store      *settings.Store
	BaseURL    string
	HTTPClient *http.Client     // nil uses the client default
	History    *history.Manager // nil disables recording
	Stdout     io.Writer
	Stderr     io.Writer
	NoColor    bool
}

func (e *Env) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Env) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func (e *Env) printer() *report.Printer {
	if e.NoColor {
		return report.NewPrinter(e.stdout(), report.WithoutColor())
	}
	return report.NewPrinter(e.stdout())
}

func (e *Env) client(apiKey string) *symanto.Client {
	baseURL := e.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	if e.HTTPClient != nil {
		return symanto.NewClient(baseURL, apiKey, symanto.WithHTTPClient(e.HTTPClient))
	}
	return symanto.NewClient(baseURL, apiKey)
}

// language resolves the --lang value, falling back to the configured default
func (e *Env) language(flag string) string {
	if flag != "" {
		return flag
	}
	return e.Store.GetOr(settings.KeyLang, config.DefaultLanguage)
}

// OutputOptions selects how a response is written
type OutputOptions struct {
	JSON  bool
	YAML  bool
	Query string // JMESPath expression or $(command)
	Copy  bool
}

// Raw reports whether the raw response is written instead of a report
func (o OutputOptions) Raw() bool {
	return o.JSON || o.YAML || o.Query != ""
}

// Validate rejects conflicting formats and malformed queries before any
// request is sent
func (o OutputOptions) Validate() error {
	if o.JSON && o.YAML {
		return errors.New("--json and --yaml cannot be combined")
	}
	if o.Query != "" && !filter.IsShellCommand(o.Query) && !filter.IsValidJMESPath(o.Query) {
		return fmt.Errorf("invalid --query expression %q", o.Query)
	}
	return nil
}

// AnalysisOptions contains options for one analysis command
type AnalysisOptions struct {
	Kind     symanto.Kind
	Text     string
	Language string // empty uses the configured default
	Output   OutputOptions
}

var spinnerMessages = map[symanto.Kind]string{
	symanto.KindSentiment:         "Analyzing sentiment...",
	symanto.KindEmotion:           "Analyzing emotions...",
	symanto.KindEkmanEmotion:      "Running Ekman emotion analysis...",
	symanto.KindLanguageDetection: "Detecting language...",
	symanto.KindPersonality:       "Analyzing personality traits...",
	symanto.KindCommunication:     "Analyzing communication style...",
	symanto.KindTopicSentiment:    "Analyzing topics and sentiments...",
}

// WithInterrupt returns a context cancelled on Ctrl+C
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// RunAnalysis sends text to a single endpoint and presents the result
func RunAnalysis(ctx context.Context, env *Env, opts AnalysisOptions) error {
	apiKey, err := env.Store.APIKey()
	if err != nil {
		return err
	}
	if err := opts.Output.Validate(); err != nil {
		return err
	}

	client := env.client(apiKey)
	language := env.language(opts.Language)

	var resp *symanto.Response
	err = spinner.Run(ctx, env.stderr(), spinnerMessages[opts.Kind], func(ctx context.Context) error {
		var err error
		resp, err = env.send(ctx, client, opts.Kind, opts.Text, language)
		return err
	})
	if err != nil {
		return err
	}

	return env.present(ctx, opts.Output, resp.Raw, func(p *report.Printer) {
		p.Render(opts.Kind, resp.Raw)
	})
}

// RunAnalyzeAll runs sentiment, emotion and personality concurrently. The
// first failure cancels the others and nothing is presented.
func RunAnalyzeAll(ctx context.Context, env *Env, opts AnalysisOptions) error {
	apiKey, err := env.Store.APIKey()
	if err != nil {
		return err
	}
	if err := opts.Output.Validate(); err != nil {
		return err
	}

	client := env.client(apiKey)
	language := env.language(opts.Language)

	kinds := []symanto.Kind{symanto.KindSentiment, symanto.KindEmotion, symanto.KindPersonality}
	results := make([]json.RawMessage, len(kinds))

	err = spinner.Run(ctx, env.stderr(), "Running full analysis...", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		for i, kind := range kinds {
			g.Go(func() error {
				resp, err := env.send(gctx, client, kind, opts.Text, language)
				if err != nil {
					return err
				}
				results[i] = resp.Raw
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return err
	}

	combined, err := report.Combine(results[0], results[1], results[2])
	if err != nil {
		return err
	}

	return env.present(ctx, opts.Output, combined, func(p *report.Printer) {
		p.Analyze(results[0], results[1], results[2])
	})
}

// send performs one request and records it in history
func (e *Env) send(ctx context.Context, client *symanto.Client, kind symanto.Kind, text, language string) (*symanto.Response, error) {
	startTime := time.Now()
	resp, err := client.Send(ctx, kind, text, language)
	e.record(kind, text, language, resp, err, time.Since(startTime))
	return resp, err
}

func (e *Env) record(kind symanto.Kind, text, language string, resp *symanto.Response, sendErr error, duration time.Duration) {
	if e.History == nil {
		return
	}
	// Requests cancelled by a sibling in analyze never completed
	if errors.Is(sendErr, context.Canceled) {
		return
	}

	entry := types.HistoryEntry{
		Kind:     string(kind),
		Text:     text,
		Duration: duration.Milliseconds(),
	}
	if kind.UsesLanguage() {
		entry.Language = language
	}
	if resp != nil {
		entry.Status = resp.Status
		entry.Response = resp.Raw
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
		var apiErr *symanto.APIError
		if errors.As(sendErr, &apiErr) {
			entry.Status = apiErr.Status
		}
	}

	if _, err := e.History.Save(entry); err != nil {
		log.WithError(err).Warn("failed to save history")
	}
}

// present writes raw output or renders the report
func (e *Env) present(ctx context.Context, opts OutputOptions, raw json.RawMessage, render func(p *report.Printer)) error {
	if opts.Copy {
		e.copyToClipboard(raw)
	}
	if opts.Raw() {
		return e.writeRaw(ctx, opts, raw)
	}
	render(e.printer())
	return nil
}

func (e *Env) writeRaw(ctx context.Context, opts OutputOptions, raw json.RawMessage) error {
	data := []byte(raw)
	if opts.Query != "" {
		filtered, err := filter.Apply(ctx, data, opts.Query)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		// Shell commands may print anything
		if !json.Valid(filtered) {
			_, err := fmt.Fprintln(e.stdout(), string(filtered))
			return err
		}
		data = filtered
	}

	if opts.YAML {
		return report.WriteYAML(e.stdout(), data)
	}
	return report.WriteJSON(e.stdout(), data, !e.NoColor && isTerminal(e.stdout()))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (e *Env) copyToClipboard(raw json.RawMessage) {
	pretty, err := report.IndentJSON(raw)
	if err != nil {
		pretty = string(raw)
	}
	if err := clipboard.WriteAll(pretty); err != nil {
		log.WithError(err).Warn("failed to copy to clipboard")
		return
	}
	fmt.Fprintln(e.stderr(), "Copied to clipboard.")
}
