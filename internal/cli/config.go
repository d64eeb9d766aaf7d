package cli

import (
	"fmt"
	"strings"

	"github.com/studiowebux/symanto/internal/settings"
)

// ConfigSetOptions holds the values given to config set. Empty fields are
// left untouched.
type ConfigSetOptions struct {
	APIKey  string
	Lang    string
	History string // on or off
}

// ConfigSet stores the given values
func ConfigSet(env *Env, opts ConfigSetOptions) error {
	p := env.printer()

	if opts.APIKey == "" && opts.Lang == "" && opts.History == "" {
		p.Notice("No values provided. Use --api-key KEY")
		return nil
	}

	if opts.History != "" {
		switch strings.ToLower(opts.History) {
		case "on", "off":
		default:
			return fmt.Errorf("invalid --history value %q (use on or off)", opts.History)
		}
	}

	if opts.APIKey != "" {
		if err := env.Store.Set(settings.KeyAPIKey, opts.APIKey); err != nil {
			return err
		}
		p.Success("API key saved successfully.")
	}
	if opts.Lang != "" {
		if err := env.Store.Set(settings.KeyLang, opts.Lang); err != nil {
			return err
		}
		p.Success(fmt.Sprintf("Default language set to %s.", opts.Lang))
	}
	if opts.History != "" {
		if err := env.Store.Set(settings.KeyHistory, strings.ToLower(opts.History)); err != nil {
			return err
		}
		p.Success(fmt.Sprintf("History turned %s.", strings.ToLower(opts.History)))
	}
	return nil
}

// ConfigShow prints every stored value with the API key masked
func ConfigShow(env *Env) error {
	p := env.printer()

	keys := env.Store.Keys()
	if len(keys) == 0 {
		p.Notice("No configuration set.")
		return nil
	}

	p.Title("Current Configuration")
	for _, key := range keys {
		value, _ := env.Store.Get(key)
		display := settings.DisplayValue(key, value)
		if key == settings.KeyAPIKey {
			display = p.Subtle(display)
		}
		p.Field(key, display)
	}
	return nil
}

// ConfigClear removes all stored values
func ConfigClear(env *Env) error {
	if err := env.Store.Clear(); err != nil {
		return err
	}
	env.printer().Success("Configuration cleared.")
	return nil
}
