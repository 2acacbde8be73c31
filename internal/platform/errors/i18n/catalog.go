// Package i18n provides internationalization support for error messages
// and view labels.
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every lookup falls back to.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

//go:embed locales/*.yaml
var localeFS embed.FS

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
	labels   map[string]string
}

type localeFile struct {
	Locale string            `yaml:"locale"`
	Errors map[string]string `yaml:"errors"`
	Labels map[string]string `yaml:"labels"`
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds bundled, override and runtime-registered catalogs by locale.
	catalogs = map[string]*Catalog{}
	matcher  language.Matcher
	tags     []language.Tag

	loadOnce sync.Once
	loadErr  error
)

// GetCatalog returns the catalog that best matches locale.
// Falls back to en-US if nothing matches.
func GetCatalog(locale string) *Catalog {
	ensureLoaded()
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c
	}
	if c, ok := lookupCatalog(Match(requested)); ok {
		return c
	}
	c, _ := lookupCatalog(BaseLocale)
	return c
}

// Match resolves a locale or Accept-Language value to a bundled locale.
func Match(accept string) string {
	ensureLoaded()
	if matcher == nil {
		return BaseLocale
	}
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return BaseLocale
	}
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return BaseLocale
	}
	return tags[index].String()
}

// Locales lists the bundled locales.
func Locales() []string {
	ensureLoaded()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

// LoadError reports a failure to parse the bundled locale files.
func LoadError() error {
	ensureLoaded()
	return loadErr
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
	if c == nil {
		return code
	}
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// Label returns the translated view label, or key when none exists.
func (c *Catalog) Label(key string) string {
	if c == nil {
		return key
	}
	if label, ok := c.labels[key]; ok {
		return label
	}
	return key
}

// RegisterCatalog registers a new catalog for the given locale.
// This is primarily for testing purposes.
func RegisterCatalog(locale string, cat *Catalog) {
	ensureLoaded()
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	return newCatalog(locale, messages, nil)
}

func newCatalog(locale string, messages map[Code]string, labels map[string]string) *Catalog {
	clonedMessages := make(map[Code]string, len(messages))
	for key, value := range messages {
		clonedMessages[key] = value
	}
	clonedLabels := make(map[string]string, len(labels))
	for key, value := range labels {
		clonedLabels[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: clonedMessages,
		labels:   clonedLabels,
	}
}

func ensureLoaded() {
	loadOnce.Do(func() {
		loaded, err := parseLocales(localeFS)
		loadErr = err
		for _, cat := range loaded {
			tag, err := language.Parse(cat.locale)
			if err != nil {
				continue
			}
			catalogs[cat.locale] = cat
			tags = append(tags, tag)
		}
		// The base locale leads so the matcher prefers it on ties.
		sort.SliceStable(tags, func(i, j int) bool {
			return tags[i].String() == BaseLocale && tags[j].String() != BaseLocale
		})
		if len(tags) > 0 {
			matcher = language.NewMatcher(tags)
		}
	})
}

func parseLocales(fsys fs.FS) ([]*Catalog, error) {
	entries, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	out := make([]*Catalog, 0, len(entries))
	for _, name := range entries {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return out, fmt.Errorf("read %s: %w", name, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			locale = strings.TrimSuffix(path.Base(name), path.Ext(name))
		}
		out = append(out, newCatalog(locale, file.Errors, file.Labels))
	}
	return out, nil
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}
