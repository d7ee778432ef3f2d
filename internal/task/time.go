package task

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoTimeInput is returned by ParseManual for blank input. It is not a
// format failure: callers treat it as "nothing entered yet".
var ErrNoTimeInput = errors.New("no time entered")

// TimeParseError describes why manual time text was rejected.
// Error returns text meant to be shown to the user as is.
type TimeParseError struct {
	Input  string
	Reason string
}

func (e *TimeParseError) Error() string {
	return e.Reason
}

var (
	time24Pattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	time12Pattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
)

// FormatMinutes renders a minute-of-day as "h:mm AM/PM".
// It panics if m is outside [0,1439]; normalize with NormalizeMinutes first.
func FormatMinutes(m int) string {
	if !validMinute(m) {
		panic(fmt.Sprintf("task: minute of day out of range: %d", m))
	}
	hours, mins := m/60, m%60
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, mins, period)
}

// NormalizeMinutes wraps any minute count onto the [0,1439] ring.
func NormalizeMinutes(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

// FormatRange renders "start - end", marking spans that end the next day.
func FormatRange(start, end int) string {
	s := FormatMinutes(start) + " - " + FormatMinutes(end)
	if end <= start {
		s += " (+1 day)"
	}
	return s
}

// FormatClock renders a minute-of-day as 24-hour "HH:MM".
func FormatClock(m int) string {
	m = NormalizeMinutes(m)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseManual parses free-text time entry. Accepted shapes are 24-hour
// "H:MM"/"HH:MM" and 12-hour "H:MM AM" with an optional space and any case.
func ParseManual(text string) (int, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return 0, ErrNoTimeInput
	}

	if m := time24Pattern.FindStringSubmatch(input); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 {
			return 0, parseErr(input, "Invalid hour: %d. Use 0-23 for 24-hour format.", hour)
		}
		if minute > 59 {
			return 0, parseErr(input, "Invalid minute: %d. Use 0-59.", minute)
		}
		return hour*60 + minute, nil
	}

	if m := time12Pattern.FindStringSubmatch(input); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 {
			return 0, parseErr(input, "Invalid hour: %d. Use 1-12 for AM/PM format.", hour)
		}
		if minute > 59 {
			return 0, parseErr(input, "Invalid minute: %d. Use 0-59.", minute)
		}
		if hour == 12 {
			hour = 0
		}
		if strings.EqualFold(m[3], "PM") {
			hour += 12
		}
		return hour*60 + minute, nil
	}

	return 0, parseErr(input, "Time format not recognized: %q. Use formats like \"2:30 PM\" or \"14:30\"", input)
}

func parseErr(input, format string, args ...any) error {
	return &TimeParseError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// FormatDuration formats minutes as "Xm", "Yh" or "Yh Xm".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// FormatCountdown formats a gap for dashboard labels: "Yh Xm" once an hour
// or more remains, otherwise "Xm".
func FormatCountdown(minutes int) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
