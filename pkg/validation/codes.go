package validation

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// GenerateTenantCode builds a human-readable registration code from the
// tenant's given name and room number: the first three letters of the name
// uppercased, four random digits, and the room number stripped of
// non-alphanumeric characters. Uniqueness relies on the random digits only.
func GenerateTenantCode(name, roomNumber string) string {
	// Slice runes, not bytes, so names starting with accented characters
	// keep a valid prefix
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	prefix := strings.ToUpper(string(runes))

	digits := 1000 + rand.Intn(9000)
	suffix := nonAlphanumeric.ReplaceAllString(roomNumber, "")

	return fmt.Sprintf("%s%d%s", prefix, digits, suffix)
}

// GenerateWaitingNumber builds the display token shown to a tenant after
// submitting a request: REQ-{last 6 digits of a millisecond timestamp}-{3
// random digits}. The token is informational only and not guaranteed unique.
func GenerateWaitingNumber() string {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	random := 100 + rand.Intn(900)

	return fmt.Sprintf("REQ-%s-%d", ts, random)
}
