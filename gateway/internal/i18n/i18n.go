package i18n

import (
	"embed"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

const DefaultLang = "es"

type dictionary map[string]any

// Translator resolves dotted keys against static per-language dictionaries.
type Translator struct {
	defaultLang string
	dicts       map[string]dictionary
}

func New(defaultLang string) (*Translator, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, errors.Wrap(err, "read locales")
	}
	tr := &Translator{
		defaultLang: defaultLang,
		dicts:       make(map[string]dictionary, len(entries)),
	}
	for _, e := range entries {
		data, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", e.Name())
		}
		var d dictionary
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, errors.Wrapf(err, "parse %s", e.Name())
		}
		tr.dicts[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = d
	}
	if tr.defaultLang == "" {
		tr.defaultLang = DefaultLang
	}
	if _, ok := tr.dicts[tr.defaultLang]; !ok {
		return nil, errors.Errorf("no dictionary for default language %q", tr.defaultLang)
	}
	return tr, nil
}

func (tr *Translator) Default() string { return tr.defaultLang }

func (tr *Translator) Supports(lang string) bool {
	_, ok := tr.dicts[lang]
	return ok
}

func (tr *Translator) Languages() []string {
	out := make([]string, 0, len(tr.dicts))
	for lang := range tr.dicts {
		out = append(out, lang)
	}
	return out
}

// T returns the translation of key in lang, falling back to the default
// language and then to the key itself.
func (tr *Translator) T(lang, key string) string {
	if key == "" {
		return ""
	}
	segments := strings.Split(key, ".")
	if d, ok := tr.dicts[lang]; ok {
		if v, ok := lookup(d, segments); ok {
			return v
		}
	}
	if v, ok := lookup(tr.dicts[tr.defaultLang], segments); ok {
		return v
	}
	return key
}

func lookup(d dictionary, segments []string) (string, bool) {
	var cur any = d
	for _, seg := range segments {
		var ok bool
		switch m := cur.(type) {
		case dictionary:
			cur, ok = m[seg]
		case map[string]any:
			cur, ok = m[seg]
		case map[any]any:
			cur, ok = m[seg]
		}
		if !ok {
			return "", false
		}
	}
	v, ok := cur.(string)
	return v, ok
}
