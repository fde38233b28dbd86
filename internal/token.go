// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package internal

import (
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenScanner is satisfied by *bufio.Reader, *bytes.Buffer and
// *strings.Reader.
type TokenScanner interface {
	io.RuneScanner
	io.ByteReader
}

// ScanToken skips leading white space and returns the run of
// non-space runes that follows. Bytes that are not valid UTF-8 are kept
// as they are. The delimiter after the token is left unread. io.EOF is
// returned only when no token was found.
func ScanToken(rs TokenScanner) (token string, err error) {
	var sb strings.Builder

	for {
		var r rune
		var size int
		r, size, err = rs.ReadRune()
		if err != nil {
			break
		}
		if r == utf8.RuneError && size == 1 {
			// Re-read the offending byte raw.
			var b byte
			if err = rs.UnreadRune(); err != nil {
				break
			}
			if b, err = rs.ReadByte(); err != nil {
				break
			}
			sb.WriteByte(b)
			continue
		}
		if unicode.IsSpace(r) {
			if sb.Len() == 0 {
				continue
			}
			err = rs.UnreadRune()
			break
		}
		sb.WriteRune(r)
	}

	token = sb.String()
	if errors.Is(err, io.EOF) {
		if len(token) == 0 {
			return
		}
		err = nil
	}

	return
}
