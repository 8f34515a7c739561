package commentary

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Redact replaces the interior of every parenthesised span with the side
// marker, keeping the parentheses and all other text verbatim.
//
// A span runs from "(" to the next ")" on the same line. An opening
// parenthesis inside an open span is treated as content, so "(a (b) c)"
// becomes "(event) c)". Spans broken by a newline or never closed are
// left untouched.
func Redact(text string, side Side) string {
	if strings.IndexByte(text, '(') < 0 {
		return text
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	open := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if open < 0 {
			if c == '(' {
				open = i
				continue
			}
			_ = buf.WriteByte(c)
			continue
		}

		switch c {
		case ')':
			_ = buf.WriteByte('(')
			_, _ = buf.WriteString(string(side))
			_ = buf.WriteByte(')')
			open = -1
		case '\n':
			_, _ = buf.WriteString(text[open : i+1])
			open = -1
		}
	}
	if open >= 0 {
		_, _ = buf.WriteString(text[open:])
	}

	return buf.String()
}

// CountSpans reports how many spans Redact would replace.
func CountSpans(text string) int {
	count := 0
	open := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			open = true
		case ')':
			if open {
				count++
			}
			open = false
		case '\n':
			open = false
		}
	}
	return count
}
