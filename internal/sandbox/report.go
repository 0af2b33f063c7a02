// report.go renders load results for the extensions command and the MCP
// server.

package sandbox

import "errors"

// Report is the JSON shape of one extension's load result.
type Report struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Version     string   `json:"version,omitempty"`
	Dir         string   `json:"dir"`
	Status      string   `json:"status"`
	Error       string   `json:"error,omitempty"`
	Kind        string   `json:"kind,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Visible     []string `json:"visible,omitempty"`
	Modules     []string `json:"modules,omitempty"`
	Elapsed     string   `json:"elapsed"`
}

// Report summarises the load result.
func (e *Extension) Report() Report {
	r := Report{
		Name:    e.Name,
		Dir:     e.Dir,
		Status:  string(e.Status),
		Elapsed: e.Elapsed.String(),
	}
	if e.Err != nil {
		r.Error = e.Err.Error()
		r.Kind = ErrorKind(e.Err)
	}
	if m := e.Manifest; m != nil {
		r.DisplayName = m.DisplayName
		r.Version = m.Version
		r.Permissions = m.Permissions
		r.Modules = m.Modules
	}
	for _, c := range e.Capabilities.List() {
		r.Visible = append(r.Visible, string(c))
	}
	return r
}

// Reports summarises every load result in order.
func Reports(exts []*Extension) []Report {
	out := make([]Report, 0, len(exts))
	for _, e := range exts {
		out = append(out, e.Report())
	}
	return out
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrManifestInvalid, "manifest_invalid"},
	{ErrThemeConflict, "theme_conflict"},
	{ErrModuleNotFound, "module_not_found"},
	{ErrPermissionDenied, "permission_denied"},
	{ErrPlatformUnsupported, "platform_unsupported"},
	{ErrEvaluation, "evaluation"},
}

// ErrorKind names the sandbox error class of err, or "other".
func ErrorKind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}
