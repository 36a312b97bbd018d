package format

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Ago renders an elapsed duration as coarse relative text, e.g. "3 days ago".
// Negative durations are treated as zero.
func Ago(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	then := time.Unix(0, 0)
	return humanize.RelTime(then, then.Add(d), "ago", "from now")
}

// Since is Ago for a UNIX timestamp seen from now.
func Since(unix int64, now time.Time) string {
	return Ago(now.Sub(time.Unix(unix, 0)))
}
