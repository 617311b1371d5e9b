//+build default debug !nodebug

package congc

import "github.com/intuitivelabs/slog"

// Debug build: DBG logs at slog.LDBG through Log. The collector's own
// code paths (cycle, sweep, adjust) do not call DBG; it is available
// to hosts and to debugging sessions.

func init() {
	BuildTags = append(BuildTags, "debug")
}

// DBGon reports whether debug-level logging is enabled.
func DBGon() bool {
	return Log.DBGon()
}

// DBG logs a debug-level message.
func DBG(f string, a ...interface{}) {
	Log.LLog(slog.LDBG, 1, "DBG: congc: ", f, a...)
}
