package shell

import (
	"strings"
)

// QuoteFor returns s ready to be embedded in a shell command for goos.
// Strings made only of safe characters are returned unchanged, so typical
// paths read the same as they would on a terminal.
func QuoteFor(goos, s string) string {
	windows := goos == "windows"
	if s != "" && !strings.ContainsFunc(s, func(r rune) bool { return needsQuoting(r, windows) }) {
		return s
	}
	if windows {
		// cmd.exe has no escape for a double quote inside quotes; Windows
		// paths cannot contain one.
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune, windows bool) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	switch r {
	case '/', '.', '-', '_', ':', '+', '=', ',', '@':
		return false
	case '\\':
		return !windows
	}
	return true
}
