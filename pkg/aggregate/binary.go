package aggregate

import (
	"bytes"
	"unicode/utf8"
)

// sniffLen is how much of a file is inspected for binary content.
const sniffLen = 512

// isBinary reports whether data looks like binary content: a NUL byte in the
// first sniffLen bytes, or more than 30% non-printable bytes there.
func isBinary(data []byte) bool {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if len(head) == 0 {
		return false
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range head {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(head)) > 0.3
}

// isPrintable treats ASCII printables, common whitespace and UTF-8 bytes as text.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b == '\f' || b >= utf8.RuneSelf
}
