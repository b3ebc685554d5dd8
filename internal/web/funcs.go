package web

import (
	"time"
)

const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 15:04"
)

// templateFuncs are the helpers available to every template.
func templateFuncs() map[string]any {
	return map[string]any{
		"date":     formatDate,
		"datetime": formatDateTime,
	}
}

// formatDate renders t as a short date, the zero time as an empty string.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Local().Format(dateLayout)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Local().Format(dateTimeLayout)
}
