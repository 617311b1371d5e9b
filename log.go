package congc

// Logging functions, following the same split as the collector's
// teacher package: a generic Log plus WARN/ERR/BUG shorthands, and a
// separate DBG hook toggled by build tag (see log_debug.go,
// log_nodebug.go).

import (
	"github.com/intuitivelabs/slog"
)

// BuildTags records which logging variant (debug or nodebug) was
// compiled into this binary, for diagnostics. Other build tags, such
// as arena_pool, are not recorded here.
var BuildTags []string

// Log is the generic log for the package. Hosts embedding congc may
// reconfigure its level or destination.
var Log slog.Log = slog.New(slog.LERR, slog.LbackTraceL|slog.LlocInfoL,
	slog.LStdErr)

// WARN logs a warning-level message.
func WARN(f string, a ...interface{}) {
	Log.LLog(slog.LWARN, 1, "WARNING: congc: ", f, a...)
}

// ERR logs an error-level message.
func ERR(f string, a ...interface{}) {
	Log.LLog(slog.LERR, 1, "ERROR: congc: ", f, a...)
}

// BUG flags a violated internal invariant (e.g. a destructor
// re-entering a collector entry point, a Free on an unregistered
// base). spec.md §7 defines these conditions as undefined behavior;
// BUG gives a best-effort diagnostic instead of silently continuing
// or panicking.
func BUG(f string, a ...interface{}) {
	Log.LLog(slog.LBUG, 1, "BUG: congc: ", f, a...)
}
