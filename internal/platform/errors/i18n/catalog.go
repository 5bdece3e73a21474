// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// BaseLocale is the locale every lookup ultimately falls back to.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds built-in and registered catalogs by locale.
	catalogs = map[string]*Catalog{}
	// matchLocales preserves registration order so the matcher prefers the base locale.
	matchLocales []string
	matcher      language.Matcher
)

func init() {
	RegisterCatalog(BaseLocale, enUSCatalog)
	RegisterCatalog("pt-BR", ptBRCatalog)
}

// GetCatalog returns the catalog for the given locale.
// Unrecognized locales resolve to the closest registered language,
// falling back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}

	catalogsMu.RLock()
	defer catalogsMu.RUnlock()

	if c, ok := catalogs[requested]; ok {
		return c
	}
	if tag, err := language.Parse(requested); err == nil && matcher != nil {
		if _, idx, conf := matcher.Match(tag); conf > language.No {
			if c, ok := catalogs[matchLocales[idx]]; ok {
				return c
			}
		}
	}
	return catalogs[BaseLocale]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
// Templates are always executed even with nil/empty metadata to ensure
// consistent output (template variables without metadata render as empty).
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	// Ensure metadata is non-nil for template execution
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a catalog for the given locale and rebuilds the
// language matcher. Lookups prefer exact locale hits, then matcher results in
// registration order.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()

	if _, ok := catalogs[locale]; !ok {
		matchLocales = append(matchLocales, locale)
	}
	catalogs[locale] = cat

	tags := make([]language.Tag, 0, len(matchLocales))
	for _, l := range matchLocales {
		tags = append(tags, language.Make(l))
	}
	matcher = language.NewMatcher(tags)
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}
