package util

import (
	"regexp"
	"strconv"
)

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)(api|secret|token|key)[=:]\s*([A-Za-z0-9-_]{8,})`)
)

// maxLogValue bounds how much of one cell value reaches the diagnostic log.
const maxLogValue = 64

func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllString(s, "$1=[redacted]")
	return s
}

// LogValue quotes a cell value for the diagnostic log: redacted and cut to
// maxLogValue runes.
func LogValue(s string) string {
	s = RedactPII(s)
	if r := []rune(s); len(r) > maxLogValue {
		s = string(r[:maxLogValue]) + "…"
	}
	return strconv.Quote(s)
}
