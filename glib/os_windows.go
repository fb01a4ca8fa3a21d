package glib

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// OsVer reports major.minor.build from RtlGetVersion.
func OsVer() string {

	info := windows.RtlGetVersion()
	if info == nil {
		return "unknown"
	}

	return fmt.Sprintf("%v.%v.%v", info.MajorVersion, info.MinorVersion, info.BuildNumber)
}
