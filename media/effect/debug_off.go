//go:build !gldebug

package effect

const DebugBuild = false
