package utils

import (
	"fmt"
	"regexp"
	"time"
)

// All scheduling arithmetic happens in the shop's civil zone: Brazil,
// fixed UTC-3 (no DST currently).
var CivilZone = time.FixedZone("America/Sao_Paulo", -3*60*60)

const civilDateLayout = "2006-01-02"

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hhmmRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// CivilToday renders now as a civil calendar date "YYYY-MM-DD",
// independent of the server's local zone.
func CivilToday(now time.Time) string {
	return now.In(CivilZone).Format(civilDateLayout)
}

// CivilMidnight maps a civil date to the absolute instant at 00:00 in the
// fixed offset. This is the canonical instant for "the day of a booking".
func CivilMidnight(dateISO string) (time.Time, error) {
	t, err := time.ParseInLocation(civilDateLayout, dateISO, CivilZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid civil date %q: %w", dateISO, err)
	}
	return t, nil
}

// CivilNowHHMM renders now as a zero-padded civil "HH:MM". Zero-padded
// strings of equal length compare lexicographically in time order.
func CivilNowHHMM(now time.Time) string {
	return now.In(CivilZone).Format("15:04")
}

// CivilWeekday returns the ISO weekday (Monday=1 .. Sunday=7) of a civil date.
func CivilWeekday(dateISO string) (int, error) {
	t, err := CivilMidnight(dateISO)
	if err != nil {
		return 0, err
	}
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd, nil
}

// MinutesOfDay parses "HH:MM" into minutes from civil midnight.
func MinutesOfDay(hhmm string) (int, error) {
	if !hhmmRe.MatchString(hhmm) {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}
	return h*60 + m, nil
}

// HHMM renders minutes from midnight as a zero-padded "HH:MM".
func HHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CivilInstant converts a civil date plus minutes from midnight into the
// absolute instant, for comparison against closure ranges and "now".
func CivilInstant(dateISO string, minutes int) (time.Time, error) {
	midnight, err := CivilMidnight(dateISO)
	if err != nil {
		return time.Time{}, err
	}
	return midnight.Add(time.Duration(minutes) * time.Minute), nil
}

// AddCivilDays shifts a civil date by n days.
func AddCivilDays(dateISO string, n int) (string, error) {
	midnight, err := CivilMidnight(dateISO)
	if err != nil {
		return "", err
	}
	return midnight.AddDate(0, 0, n).In(CivilZone).Format(civilDateLayout), nil
}

// ValidCivilDate reports whether s looks like "YYYY-MM-DD" and parses.
func ValidCivilDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := CivilMidnight(s)
	return err == nil
}

// ValidHHMM reports whether s is a well-formed zero-padded time of day.
func ValidHHMM(s string) bool {
	_, err := MinutesOfDay(s)
	return err == nil
}

// FormatCivilDateBR renders a civil date as dd/mm/yyyy for user-facing text.
func FormatCivilDateBR(dateISO string) string {
	t, err := CivilMidnight(dateISO)
	if err != nil {
		return dateISO
	}
	return t.Format("02/01/2006")
}
