package sandbox

import (
	"fmt"
	"testing"
	"time"

	"github.com/jpl-au/sulaiman/internal/manifest"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: bad", ErrManifestInvalid), "manifest_invalid"},
		{fmt.Errorf("%w: dark", ErrThemeConflict), "theme_conflict"},
		{fmt.Errorf("%w: x", ErrModuleNotFound), "module_not_found"},
		{fmt.Errorf("%w: os", ErrPermissionDenied), "permission_denied"},
		{fmt.Errorf("%w: win32", ErrPlatformUnsupported), "platform_unsupported"},
		{fmt.Errorf("%w: panic", ErrEvaluation), "evaluation"},
		{fmt.Errorf("boom"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestReport(t *testing.T) {
	b := NewBuilder(false)
	assert.NoError(t, b.Grant("clipboard"))
	e := &Extension{
		Name: "paste",
		Dir:  "/ext/paste",
		Manifest: &manifest.Manifest{
			Name: "paste", DisplayName: "Paste", Version: "1.0.0",
			Permissions: []string{"clipboard"}, Modules: []string{"strings"},
		},
		Capabilities: b.Build(),
		Status:       StatusFailed,
		Err:          fmt.Errorf("%w: missing", ErrModuleNotFound),
		Elapsed:      time.Millisecond,
	}

	r := e.Report()
	assert.Equal(t, "paste", r.Name)
	assert.Equal(t, "Paste", r.DisplayName)
	assert.Equal(t, "failed", r.Status)
	assert.Equal(t, "module_not_found", r.Kind)
	assert.Equal(t, []string{"clipboard"}, r.Visible)
	assert.Equal(t, "1ms", r.Elapsed)

	assert.Len(t, Reports([]*Extension{e, e}), 2)
}
