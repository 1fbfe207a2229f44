package shader

import (
	"bytes"
	"strings"
)

// Source prepends Version unless src already declares one.
func Source(src string) string {
	if strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return src
	}
	return Version + src
}

// InfoLog trims the NUL terminator and trailing whitespace from a GL log.
func InfoLog(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(string(raw))
}
