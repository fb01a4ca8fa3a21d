package glib

import (
	"os"
	"path/filepath"
	"strings"
)

func AppBaseDir() string {

	sRet := ""

	xFilePath, xFilePathErr := filepath.Abs(os.Args[0])
	if xFilePathErr != nil {
		return sRet
	}

	sRet = filepath.Dir(xFilePath)

	return sRet
}

// AppName is the executable name without its extension.
func AppName() string {

	xFilePath, xFilePathErr := filepath.Abs(os.Args[0])
	if xFilePathErr != nil {
		return "app"
	}

	sRet := filepath.Base(xFilePath)

	return strings.TrimSuffix(sRet, filepath.Ext(sRet))

}

// AppDataPath joins elem under the data directory next to the executable.
func AppDataPath(elem ...string) string {
	return filepath.Join(append([]string{AppBaseDir(), "data"}, elem...)...)
}
