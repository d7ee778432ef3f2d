package task

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// MaxNameLength is the longest accepted task name after cleaning.
const MaxNameLength = 100

// ValidationKind identifies which rule rejected a candidate task.
type ValidationKind string

const (
	KindNameRequired ValidationKind = "name_required"
	KindNameEmpty    ValidationKind = "name_empty"
	KindNameTooLong  ValidationKind = "name_too_long"
	KindNameContent  ValidationKind = "name_content"
	KindPriority     ValidationKind = "priority"
	KindTimeRange    ValidationKind = "time_range"
	KindTooLong      ValidationKind = "duration_too_long"
	KindTooShort     ValidationKind = "duration_too_short"
)

// ValidationError is a business-rule rejection with user-facing text.
type ValidationError struct {
	Kind       ValidationKind
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion == "" {
		return e.Message
	}
	return e.Message + " " + e.Suggestion
}

// Result is the outcome of Validate. Exactly one of Error or the
// normalized fields is meaningful.
type Result struct {
	Error *ValidationError

	Name            string
	StartTime       int
	EndTime         int
	CrossesMidnight bool
	DurationMinutes int
	DurationText    string
}

// Valid reports whether validation passed.
func (r Result) Valid() bool {
	return r.Error == nil
}

// Err returns the failure as an error, or nil.
func (r Result) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// invisible matches zero-width characters, the BOM and C0/C1 controls.
var invisible = runes.Predicate(func(r rune) bool {
	switch {
	case r >= 0x200B && r <= 0x200D, r == 0xFEFF:
		return true
	case r <= 0x1F, r >= 0x7F && r <= 0x9F:
		return true
	}
	return false
})

// CleanName trims a task name, drops invisible and control characters and
// collapses whitespace runs to single spaces.
func CleanName(name string) string {
	// runes.Remove never fails.
	cleaned, _, _ := transform.String(runes.Remove(invisible), name)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Validate checks a candidate task and returns the normalized fields.
// Rules run in order and the first failure wins.
func Validate(name string, start, end int, priority Priority) Result {
	if strings.TrimSpace(name) == "" {
		return failed(KindNameRequired, "Please enter a task name", "")
	}
	cleaned := CleanName(name)
	if cleaned == "" {
		return failed(KindNameEmpty, "Task name cannot be empty after cleaning", "")
	}
	if n := utf8.RuneCountInString(cleaned); n > MaxNameLength {
		return failed(KindNameTooLong,
			fmt.Sprintf("Task name is too long (%d characters). Please keep it under %d characters.", n, MaxNameLength), "")
	}
	if !hasAlphanumeric(cleaned) {
		return failed(KindNameContent, "Task name must contain at least some letters or numbers", "")
	}

	if !priority.Valid() {
		return failed(KindPriority, "Please select a valid task priority", "")
	}

	if !validMinute(start) || !validMinute(end) {
		return failed(KindTimeRange,
			fmt.Sprintf("Times must be between 0 and %d minutes past midnight.", MinutesPerDay-1), "")
	}

	crosses, duration := Derive(start, end)
	if duration > MaxDurationMinutes {
		return failed(KindTooLong,
			fmt.Sprintf("Tasks longer than %d hours might be too ambitious. Consider breaking it down.", MaxDurationMinutes/60),
			fmt.Sprintf("Current duration: %dh %dm", duration/60, duration%60))
	}
	if duration < MinDurationMinutes {
		return failed(KindTooShort,
			fmt.Sprintf("Tasks shorter than %d minutes might not be worth scheduling separately.", MinDurationMinutes),
			"Consider combining with another task or extending the time.")
	}

	return Result{
		Name:            cleaned,
		StartTime:       start,
		EndTime:         end,
		CrossesMidnight: crosses,
		DurationMinutes: duration,
		DurationText:    FormatDuration(duration),
	}
}

func failed(kind ValidationKind, msg, suggestion string) Result {
	return Result{Error: &ValidationError{Kind: kind, Message: msg, Suggestion: suggestion}}
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}
