package utils

import "time"

// TimeNow is the clock used for timestamps written by the application.
// Stored timestamps are always UTC.
var TimeNow = func() time.Time {
	return time.Now().UTC()
}
