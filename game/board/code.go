package board

import (
	"encoding/binary"
	"fmt"

	"github.com/njones/base58"
)

// shareCodeVersion is the first byte of every share code. Bump only with a
// migration path for codes already in the wild.
const shareCodeVersion = 1

// shareCodeLen is one version byte plus the big-endian packed layout.
const shareCodeLen = 9

// ShareCode wraps the packed layout in a short base58 string for pasting
// into chats and CLI invocations. The decimal wire form (Layout.String)
// remains the persistence format; share codes are presentation only.
func (l Layout) ShareCode() string {
	buf := make([]byte, shareCodeLen)
	buf[0] = shareCodeVersion
	binary.BigEndian.PutUint64(buf[1:], uint64(l))
	return base58.StdEncoding.EncodeToString(buf)
}

// ParseShareCode decodes a share code back into a layout, rejecting wrong
// versions, truncated input, and payloads that are not valid layouts.
func ParseShareCode(code string) (Layout, error) {
	buf, err := base58.StdEncoding.DecodeString(code)
	if err != nil {
		return 0, fmt.Errorf("%w: share code %q", ErrInvalidLayout, code)
	}
	if len(buf) != shareCodeLen {
		return 0, fmt.Errorf("%w: share code %q decodes to %d bytes, want %d", ErrInvalidLayout, code, len(buf), shareCodeLen)
	}
	if buf[0] != shareCodeVersion {
		return 0, fmt.Errorf("%w: share code version %d, want %d", ErrInvalidLayout, buf[0], shareCodeVersion)
	}
	l := Layout(binary.BigEndian.Uint64(buf[1:]))
	if err := l.check(); err != nil {
		return 0, err
	}
	return l, nil
}
