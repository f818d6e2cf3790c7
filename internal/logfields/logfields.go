package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyLine       = "line"
	KeyName       = "name"
	KeyTemplate   = "template"
	KeyParent     = "parent"
	KeyPage       = "page"
	KeyLinkName   = "link_name"
	KeyCount      = "count"
	KeyKind       = "kind"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Parent(name string) slog.Attr    { return slog.String(KeyParent, name) }
func Page(path string) slog.Attr      { return slog.String(KeyPage, path) }
func LinkName(n string) slog.Attr     { return slog.String(KeyLinkName, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
