package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslator_T(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)

	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{name: "english", lang: "en", key: "common.loading", want: "Loading..."},
		{name: "spanish", lang: "es", key: "common.loading", want: "Cargando..."},
		{name: "unsupported language", lang: "fr", key: "common.loading", want: "Cargando..."},
		{name: "missing in english", lang: "en", key: "events.status.finalizado", want: "Finalizado"},
		{name: "unknown key", lang: "en", key: "x.y.z", want: "x.y.z"},
		{name: "branch is not a leaf", lang: "en", key: "common", want: "common"},
		{name: "too deep", lang: "en", key: "common.loading.more", want: "common.loading.more"},
		{name: "empty key", lang: "en", key: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tr.T(tt.lang, tt.key))
		})
	}
}

func TestNew_UnknownDefault(t *testing.T) {
	_, err := New("de")
	require.Error(t, err)

	tr, err := New("")
	require.NoError(t, err)
	require.True(t, tr.Supports("en"))
	require.ElementsMatch(t, []string{"es", "en"}, tr.Languages())
}

func TestLookup_NestedShapes(t *testing.T) {
	d := dictionary{
		"a": dictionary{"b": "named"},
		"c": map[string]any{"d": "plain"},
		"e": map[any]any{"f": "loose"},
	}
	for key, want := range map[string]string{"a.b": "named", "c.d": "plain", "e.f": "loose"} {
		got, ok := lookup(d, strings.Split(key, "."))
		require.True(t, ok, key)
		require.Equal(t, want, got)
	}
	_, ok := lookup(d, []string{"a"})
	require.False(t, ok)
}

// Every leaf of every dictionary resolves to itself in its own language.
func TestTranslator_AllLeavesResolve(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)

	var walk func(prefix string, node any, visit func(key, value string))
	walk = func(prefix string, node any, visit func(key, value string)) {
		switch m := node.(type) {
		case dictionary:
			for k, v := range m {
				walk(prefix+k+".", v, visit)
			}
		case map[string]any:
			for k, v := range m {
				walk(prefix+k+".", v, visit)
			}
		case string:
			visit(strings.TrimSuffix(prefix, "."), m)
		}
	}
	for lang, d := range tr.dicts {
		n := 0
		walk("", d, func(key, value string) {
			n++
			require.Equal(t, value, tr.T(lang, key), "%s %s", lang, key)
		})
		require.NotZero(t, n, lang)
	}
	require.NotEqual(t, "password.rules.length", tr.T("en", "password.rules.length"))
}
