// Package i18n loads the UI string catalogs and looks up translations.
// Turkish is the default language; English fills in missing keys.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLanguage  = "tr"
	FallbackLanguage = "en"
)

//go:embed locales/*.yaml
var locales embed.FS

// Translator resolves dotted keys such as "results.traffic_body" against
// flattened YAML catalogs.
type Translator struct {
	mu       sync.RWMutex
	lang     string
	catalogs map[string]map[string]string
}

// New loads the embedded catalogs and selects lang.
func New(lang string) (*Translator, error) {
	return Load(locales, "locales", lang)
}

// Load reads every <lang>.yaml file in dir.
func Load(fsys fs.FS, dir, lang string) (*Translator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalogs: %w", err)
	}

	catalogs := make(map[string]map[string]string)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", e.Name(), err)
		}

		var tree map[string]interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", e.Name(), err)
		}

		flat := make(map[string]string)
		flatten("", tree, flat)
		catalogs[strings.TrimSuffix(e.Name(), ".yaml")] = flat
	}

	if _, ok := catalogs[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback catalog %q missing", FallbackLanguage)
	}

	t := &Translator{catalogs: catalogs}
	if err := t.SetLanguage(lang); err != nil {
		return nil, err
	}
	return t, nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// SetLanguage switches the active catalog. An empty lang selects the default.
func (t *Translator) SetLanguage(lang string) error {
	if lang == "" {
		lang = DefaultLanguage
	}
	if _, ok := t.catalogs[lang]; !ok {
		return fmt.Errorf("unsupported language %q", lang)
	}

	t.mu.Lock()
	t.lang = lang
	t.mu.Unlock()
	return nil
}

func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// Languages lists the loaded catalogs.
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.catalogs))
	for l := range t.catalogs {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// T translates key, replacing {{name}} placeholders from the key-value
// pairs in vars. Missing keys fall back to English, then to the key itself.
func (t *Translator) T(key string, vars ...interface{}) string {
	t.mu.RLock()
	lang := t.lang
	t.mu.RUnlock()

	msg, ok := t.catalogs[lang][key]
	if !ok {
		msg, ok = t.catalogs[FallbackLanguage][key]
	}
	if !ok {
		return key
	}
	return interpolate(msg, vars)
}

func interpolate(msg string, vars []interface{}) string {
	if len(vars) < 2 || !strings.Contains(msg, "{{") {
		return msg
	}

	pairs := make([]string, 0, len(vars))
	for i := 0; i+1 < len(vars); i += 2 {
		name, ok := vars[i].(string)
		if !ok {
			continue
		}
		pairs = append(pairs, "{{"+name+"}}", fmt.Sprint(vars[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
