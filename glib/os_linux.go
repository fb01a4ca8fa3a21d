package glib

import (
	"bufio"
	"os"
	"strings"
)

// OsVer reads PRETTY_NAME from /etc/os-release.
func OsVer() string {

	osVer := "unknown"

	file, err := os.Open("/etc/os-release")
	if err != nil {
		return osVer
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found || strings.TrimSpace(key) != "PRETTY_NAME" {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), "\"")
		if len(value) > 0 {
			osVer = value
		}

		break
	}

	return osVer

}
