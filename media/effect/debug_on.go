//go:build gldebug

package effect

// DebugBuild is set by the gldebug build tag.
const DebugBuild = true
