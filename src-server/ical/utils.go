package ical

import (
	"strings"
	"time"
)

// Transform a normal writer into one that folds content lines longer than
// 75 octets and terminates every line with CRLF. Example:
//
//	var sb strings.Builder
//	writer := Split75wrapper(sb.WriteString)
//	writer("SUMMARY:Hello,world!")
//
// Output: (let's assume it folds after 12 octets)
//
//	SUMMARY:Hell\r\n
//	 o,world!\r\n
func Split75wrapper(writer func(string) (int, error)) func(string) (int, error) {
	return func(str string) (int, error) {
		// write right away if the string is short enough
		if len(str) <= 75 {
			return writer(str + "\r\n")
		}

		// continuation lines start with a space, which counts toward the limit
		var sb strings.Builder
		limit := 75
		for len(str) > 0 {
			cut := limit
			if cut >= len(str) {
				cut = len(str)
			} else {
				// don't split a multi-byte rune
				for cut > 0 && !isRuneStart(str[cut]) {
					cut--
				}
				if cut == 0 {
					cut = limit
				}
			}
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(str[:cut])
			sb.WriteString("\r\n")
			str = str[cut:]
			limit = 74
		}
		return writer(sb.String())
	}
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// Escape TEXT property values per RFC 5545 3.3.11.
func EscapeText(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	).Replace(s)
}

// Convert a time to a string in iCalendar format: YYYYMMDD when dateOnly,
// YYYYMMDDTHHMMSSZ otherwise.
func TimeToIcalDatetime(t time.Time, dateOnly bool) string {
	if dateOnly {
		return t.Format("20060102")
	}
	return t.UTC().Format("20060102T150405Z")
}
