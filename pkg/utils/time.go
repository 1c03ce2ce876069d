package utils

import "time"

// TimeLayout is the layout used for every date-time written to a document.
// Nanosecond precision keeps documents lossless.
const TimeLayout = time.RFC3339Nano

// Now returns the current time normalised by NormalizeTime
func Now() time.Time {
	return NormalizeTime(time.Now())
}

// NormalizeTime strips the monotonic reading and moves t to UTC, so two
// instants that are Equal also format identically.
func NormalizeTime(t time.Time) time.Time {
	return t.Round(0).UTC()
}

// FormatTime formats t with TimeLayout
func FormatTime(t time.Time) string {
	return NormalizeTime(t).Format(TimeLayout)
}

// ParseTime parses a time string in TimeLayout and normalises it
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeTime(t), nil
}
