package cli

import (
	"strings"
	"testing"

	"github.com/studiowebux/symanto/internal/settings"
)

func TestConfigSet_ThenShowMasksKey(t *testing.T) {
	env, out := newTestEnv(t, "")

	if err := ConfigSet(env, ConfigSetOptions{APIKey: "ABCD1234"}); err != nil {
		t.Fatalf("ConfigSet failed: %v", err)
	}
	if out.String() != "API key saved successfully.\n" {
		t.Errorf("unexpected set output %q", out.String())
	}

	// A fresh store reads what the previous invocation persisted
	reloaded := settings.NewStore(env.Store.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	out.Reset()
	env.Store = reloaded

	if err := ConfigShow(env); err != nil {
		t.Fatalf("ConfigShow failed: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Current Configuration") {
		t.Errorf("missing title:\n%s", s)
	}
	if !strings.Contains(s, "  apiKey: ****1234\n") {
		t.Errorf("expected masked key:\n%s", s)
	}
	if strings.Contains(s, "ABCD1234") {
		t.Errorf("key leaked in output:\n%s", s)
	}
}

func TestConfigSet_NoValues(t *testing.T) {
	env, out := newTestEnv(t, "")

	if err := ConfigSet(env, ConfigSetOptions{}); err != nil {
		t.Fatalf("ConfigSet failed: %v", err)
	}
	if out.String() != "No values provided. Use --api-key KEY\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if len(env.Store.Keys()) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestConfigSet_LangAndHistory(t *testing.T) {
	env, out := newTestEnv(t, "")

	if err := ConfigSet(env, ConfigSetOptions{Lang: "de", History: "OFF"}); err != nil {
		t.Fatalf("ConfigSet failed: %v", err)
	}
	if got := env.Store.GetOr(settings.KeyLang, ""); got != "de" {
		t.Errorf("lang = %q", got)
	}
	if env.Store.IsHistoryEnabled() {
		t.Error("history should be disabled")
	}
	if !strings.Contains(out.String(), "History turned off.") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	ConfigShow(env)
	if !strings.Contains(out.String(), "  lang: de\n") || !strings.Contains(out.String(), "  history: off\n") {
		t.Errorf("unexpected show output:\n%s", out.String())
	}
}

func TestConfigSet_InvalidHistory(t *testing.T) {
	env, _ := newTestEnv(t, "")

	if err := ConfigSet(env, ConfigSetOptions{APIKey: "ABCD1234", History: "maybe"}); err == nil {
		t.Fatal("expected error for invalid history value")
	}
	if env.Store.IsConfigured() {
		t.Error("no value should be stored when validation fails")
	}
}

func TestConfigShow_Empty(t *testing.T) {
	env, out := newTestEnv(t, "")

	if err := ConfigShow(env); err != nil {
		t.Fatalf("ConfigShow failed: %v", err)
	}
	if out.String() != "No configuration set.\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestConfigClear(t *testing.T) {
	env, out := newTestEnv(t, "")
	configure(t, env, "ABCD1234")

	if err := ConfigClear(env); err != nil {
		t.Fatalf("ConfigClear failed: %v", err)
	}
	if out.String() != "Configuration cleared.\n" {
		t.Errorf("unexpected output %q", out.String())
	}

	reloaded := settings.NewStore(env.Store.Path())
	reloaded.Load()
	if reloaded.IsConfigured() {
		t.Error("key should be gone after clear")
	}
}
