package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Defaults(t *testing.T) {
	regular := NewBuilder(false).Build()
	theme := NewBuilder(true).Build()

	for _, c := range sensitive {
		assert.False(t, regular.Visible(c), c)
		assert.False(t, theme.Visible(c), c)
	}
	for _, c := range themeOnly {
		assert.False(t, regular.Visible(c), c)
		assert.True(t, theme.Visible(c), c)
	}
	assert.True(t, regular.Visible(""), "ungated symbols are always visible")
}

func TestBuilder_Grant(t *testing.T) {
	b := NewBuilder(false)
	require.NoError(t, b.Grant("clipboard"))
	require.NoError(t, b.Grant("style"))
	assert.ErrorIs(t, b.Grant("root"), ErrManifestInvalid)

	caps := b.Build()
	assert.Equal(t, []Capability{Clipboard, Style}, caps.List())

	require.NoError(t, b.Grant("shell"))
	assert.False(t, caps.Visible(Shell), "built capabilities never change")
}

func TestKnown(t *testing.T) {
	assert.Len(t, Known(), len(sensitive)+len(themeOnly))
}

func TestGate(t *testing.T) {
	tests := []struct {
		pkg   string
		want  Capability
		gated bool
	}{
		{"os/exec", Process, true},
		{"os", Filesystem, true},
		{"net/http", Network, true},
		{"net", Network, true},
		{"text/template", Filesystem, true},
		{"archive/zip", Filesystem, true},
		{"debug/elf", Filesystem, true},
		{"crypto/tls", Network, true},
		{"net/url", "", false},
		{"text/template/parse", "", false},
		{"strings", "", false},
		{"encoding/json", "", false},
	}
	for _, tt := range tests {
		c, gated := gate(tt.pkg)
		assert.Equal(t, tt.gated, gated, tt.pkg)
		assert.Equal(t, tt.want, c, tt.pkg)
	}
}

func TestIsForbidden(t *testing.T) {
	for _, p := range []string{
		"unsafe", "reflect", "syscall", "runtime", "runtime/debug", "plugin", "internal/abi", "C",
		"go/build", "go/importer", "go/types", "testing", "net/http/httptest", "database/sql",
		"expvar", "flag", "log/slog", "github.com/traefik/yaegi/stdlib",
	} {
		assert.True(t, isForbidden(p), p)
	}
	for _, p := range []string{"strings", "fmt", "os", "os/exec", "text/template", "runtimex", "reflective"} {
		assert.False(t, isForbidden(p), p)
	}
}

func TestValidImportPath(t *testing.T) {
	for _, p := range []string{"mathx", "github.com/x/y"} {
		assert.True(t, validImportPath(p), p)
	}
	for _, p := range []string{"", "../x", "a/../b", "/abs", `a\b`, "a//b", "./a", "c:/x"} {
		assert.False(t, validImportPath(p), p)
	}
}
