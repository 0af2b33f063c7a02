package sandbox

import "errors"

// Load errors. Each is scoped to one extension; a failure never stops
// other extensions from loading.
var (
	ErrManifestInvalid     = errors.New("manifest invalid")
	ErrThemeConflict       = errors.New("theme already claimed")
	ErrModuleNotFound      = errors.New("module not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrPlatformUnsupported = errors.New("platform unsupported")
	ErrEvaluation          = errors.New("evaluation failed")
)
