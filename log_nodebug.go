//+build nodebug

package congc

// Nodebug build: DBG and DBGon become no-ops, so any DBG call costs no
// formatting work.

func init() {
	BuildTags = append(BuildTags, "nodebug")
}

// DBGon reports whether debug-level logging is enabled.
func DBGon() bool {
	return false
}

// DBG is a no-op in this build.
func DBG(f string, a ...interface{}) {
}
