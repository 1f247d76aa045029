package texts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const fallbackLanguage = "ru"

// Catalog holds every localized message and button label, keyed by language
// then message key. Values are plain strings or fmt templates.
type Catalog struct {
	messages map[string]map[string]string
}

// Load parses the embedded locale files. The file name minus extension is the
// language code.
func Load() (*Catalog, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	catalog := &Catalog{messages: make(map[string]map[string]string)}
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		raw, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		catalog.messages[lang] = table
	}
	if _, ok := catalog.messages[fallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback locale %q missing", fallbackLanguage)
	}
	return catalog, nil
}

// Get returns the message for the language, falling back to the default
// language and finally to the key itself so a missing entry stays visible.
func (c *Catalog) Get(lang, key string) string {
	if table, ok := c.messages[lang]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := c.messages[fallbackLanguage][key]; ok {
		return msg
	}
	return key
}

// F formats a templated message.
func (c *Catalog) F(lang, key string, args ...any) string {
	return fmt.Sprintf(c.Get(lang, key), args...)
}

// Languages lists the loaded language codes.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		langs = append(langs, lang)
	}
	return langs
}
