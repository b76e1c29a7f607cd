package executor

import "strings"

// shellQuote wraps s in single quotes for safe interpolation into a remote
// shell command line, escaping any embedded single quote the POSIX way:
// close the quote, emit an escaped quote, reopen it.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
