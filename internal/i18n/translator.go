// Package i18n loads message catalogs and renders translated strings.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported locales.
const (
	Korean  = "ko"
	English = "en"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Params are placeholder values substituted into a message.
type Params map[string]any

// Translator renders messages from per-locale catalogs.
type Translator struct {
	defaultLocale string
	catalogs      map[string]map[string]string
}

// New loads the embedded catalogs.
func New(defaultLocale string) (*Translator, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	t := &Translator{defaultLocale: defaultLocale, catalogs: map[string]map[string]string{}}
	for _, e := range entries {
		raw, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		locale := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if err := t.Add(locale, raw); err != nil {
			return nil, err
		}
	}
	if _, ok := t.catalogs[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}
	return t, nil
}

// MustNew is New for package-level setup and tests.
func MustNew(defaultLocale string) *Translator {
	t, err := New(defaultLocale)
	if err != nil {
		panic(err)
	}
	return t
}

// Add merges a yaml catalog into locale. Nested maps become dotted keys.
func (t *Translator) Add(locale string, raw []byte) error {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("parse %s catalog: %w", locale, err)
	}
	flat, ok := t.catalogs[locale]
	if !ok {
		flat = map[string]string{}
		t.catalogs[locale] = flat
	}
	flatten("", tree, flat)
	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// DefaultLocale returns the fallback locale.
func (t *Translator) DefaultLocale() string { return t.defaultLocale }

// Locales lists the loaded locales.
func (t *Translator) Locales() []string {
	out := make([]string, 0, len(t.catalogs))
	for l := range t.catalogs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Has reports whether locale defines key.
func (t *Translator) Has(locale, key string) bool {
	_, ok := t.catalogs[locale][key]
	return ok
}

// T renders key in locale. Missing keys fall back to the default locale,
// then to the key itself.
func (t *Translator) T(locale, key string, params Params) string {
	msg, ok := t.catalogs[locale][key]
	if !ok {
		msg, ok = t.catalogs[t.defaultLocale][key]
	}
	if !ok {
		return key
	}
	for name, v := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprint(v))
	}
	return msg
}

// Value translates an enum value such as a status.
func (t *Translator) Value(locale, value string) string {
	if value == "" {
		return ""
	}
	if t.Has(locale, "values."+value) {
		return t.T(locale, "values."+value, nil)
	}
	return value
}

// Negotiate picks a supported locale from an explicit choice or an
// Accept-Language header, in that order.
func (t *Translator) Negotiate(explicit, acceptLanguage string) string {
	if l := normalize(explicit); l != "" && t.supports(l) {
		return l
	}
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if l := normalize(tag); l != "" && t.supports(l) {
			return l
		}
	}
	return t.defaultLocale
}

func (t *Translator) supports(locale string) bool {
	_, ok := t.catalogs[locale]
	return ok
}

func normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}
