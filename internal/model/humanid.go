package model

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	humanIDSuffixLen = 9
	base36Alphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewHumanID generates a displayable request identifier of the form
// <PREFIX>-<unixMillis>-<9-char base36 suffix>. It is an advisory display
// id for search and support conversations, not the primary key: uniqueness
// is overwhelmingly probable but not enforced by the store.
func NewHumanID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), randomBase36(humanIDSuffixLen))
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// fall back to a timestamp-derived suffix rather than panicking.
		ts := time.Now().UnixNano()
		for i := range buf {
			buf[i] = base36Alphabet[ts%36]
			ts /= 36
			if ts == 0 {
				ts = time.Now().UnixNano()
			}
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = base36Alphabet[int(buf[i])%len(base36Alphabet)]
	}
	return string(buf)
}
