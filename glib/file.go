package glib

import (
	"os"
)

func FileExists(path string) bool {

	bRet := false

	xFileInfo, xFileInfoErr := os.Stat(path)
	if xFileInfoErr != nil {
		return bRet
	}

	if !xFileInfo.IsDir() {
		bRet = true
	}

	return bRet

}

func DirExists(path string) bool {

	xFileInfo, xFileInfoErr := os.Stat(path)
	if xFileInfoErr != nil {
		return false
	}

	return xFileInfo.IsDir()

}

func FileReadAllText(path string) string {

	sData := ""

	xFileData, xFileDataErr := os.ReadFile(path)
	if xFileDataErr != nil {
		return sData
	}

	sData = string(xFileData)

	return sData

}
