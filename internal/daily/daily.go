// apps/go-server/internal/daily/daily.go
//
// Daily breach: every player gets the same board on a given UTC date.
// The board seed is HMAC(salt, YYYY-MM-DD), so it cannot be predicted without
// the server salt but is stable for the whole day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives the board seed for a date. Never zero.
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	if n == 0 {
		n = 1
	}
	return n
}
