package views

import (
	"time"

	"github.com/mark31d/OlympusAirDiary/internal/models"
)

// FormatDate renders the date prefix of dateISO as dd.mm.yyyy, or "" when it
// does not start with a valid date.
func FormatDate(dateISO string) string {
	t, err := time.Parse(DateLayout, DateKey(dateISO))
	if err != nil {
		return ""
	}
	return t.Format("02.01.2006")
}

// ShareText is the message handed to the OS share sheet for one memory.
func ShareText(m models.Memory) string {
	return m.Title + "\n" + FormatDate(m.DateISO) + "\n" + m.Description
}
