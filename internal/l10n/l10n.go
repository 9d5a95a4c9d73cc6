// Package l10n resolves localized strings from YAML catalogs embedded in the
// binary. Missing ids fall back to en-US, then to the id itself.
package l10n

import (
	"context"
	"embed"
	"fmt"
	"regexp"

	"github.com/mmcdole/syncpanel/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when the configured locale has no catalog
const DefaultLocale = "en-US"

//go:embed locales/*.yaml
var catalogs embed.FS

var placeholder = regexp.MustCompile(`\{\s*\$([A-Za-z0-9_-]+)\s*\}`)

// Bundle implements domain.Localizer for one locale
type Bundle struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

// New loads the catalog for locale, falling back to DefaultLocale
func New(locale string) (*Bundle, error) {
	fallback, err := load(DefaultLocale)
	if err != nil {
		return nil, err
	}

	b := &Bundle{locale: DefaultLocale, messages: fallback, fallback: fallback}
	if locale == "" || locale == DefaultLocale {
		return b, nil
	}

	messages, err := load(locale)
	if err != nil {
		// Unknown locales use the default catalog
		return b, nil
	}
	b.locale = locale
	b.messages = messages
	return b, nil
}

func load(locale string) (map[string]string, error) {
	data, err := catalogs.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no catalog for %q: %w", locale, err)
	}
	messages := make(map[string]string)
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", locale, err)
	}
	return messages, nil
}

// Locale returns the locale actually in use
func (b *Bundle) Locale() string {
	return b.locale
}

func (b *Bundle) lookup(id string) (string, bool) {
	if s, ok := b.messages[id]; ok {
		return s, true
	}
	s, ok := b.fallback[id]
	return s, ok
}

// FormatValue resolves id. A missing id yields the id itself and
// domain.ErrMissingString.
func (b *Bundle) FormatValue(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, ok := b.lookup(id)
	if !ok {
		return id, fmt.Errorf("%s: %w", id, domain.ErrMissingString)
	}
	return s, nil
}

// Format resolves id and substitutes { $name } placeholders from args.
// Unknown placeholders are left as they are.
func (b *Bundle) Format(id string, args map[string]string) string {
	s, ok := b.lookup(id)
	if !ok {
		return id
	}
	if len(args) == 0 {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := args[name]; ok {
			return v
		}
		return m
	})
}
