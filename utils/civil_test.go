package utils

import (
	"testing"
	"time"
)

func TestCivilToday_IndependentOfServerZone(t *testing.T) {
	// 02:30 UTC is still 23:30 of the previous civil day at UTC-3.
	now := time.Date(2026, 3, 2, 2, 30, 0, 0, time.UTC)
	if got := CivilToday(now); got != "2026-03-01" {
		t.Errorf("CivilToday = %q, want 2026-03-01", got)
	}

	noon := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	if got := CivilToday(noon); got != "2026-03-02" {
		t.Errorf("CivilToday = %q, want 2026-03-02", got)
	}
}

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"08:00", 480, true},
		{"19:40", 1180, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:00", 0, false}, // must be zero padded
		{"0900", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := MinutesOfDay(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("MinutesOfDay(%q) = (%d, %v), want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("MinutesOfDay(%q) should fail", tc.in)
		}
	}
}

func TestHHMM_RoundTrip(t *testing.T) {
	for _, minutes := range []int{0, 480, 485, 1180, 1439} {
		back, err := MinutesOfDay(HHMM(minutes))
		if err != nil || back != minutes {
			t.Errorf("round trip of %d failed: got %d, err %v", minutes, back, err)
		}
	}
	if got := HHMM(545); got != "09:05" {
		t.Errorf("HHMM(545) = %q, want 09:05", got)
	}
}

func TestCivilWeekday(t *testing.T) {
	// 2026-03-02 is a Monday, 2026-03-01 a Sunday.
	if wd, _ := CivilWeekday("2026-03-02"); wd != 1 {
		t.Errorf("weekday of 2026-03-02 = %d, want 1", wd)
	}
	if wd, _ := CivilWeekday("2026-03-01"); wd != 7 {
		t.Errorf("weekday of 2026-03-01 = %d, want 7", wd)
	}
	if _, err := CivilWeekday("not-a-date"); err == nil {
		t.Error("malformed date should fail")
	}
}

func TestAddCivilDays(t *testing.T) {
	cases := []struct {
		date string
		n    int
		want string
	}{
		{"2026-02-28", 1, "2026-03-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-03-10", 0, "2026-03-10"},
	}
	for _, tc := range cases {
		got, err := AddCivilDays(tc.date, tc.n)
		if err != nil || got != tc.want {
			t.Errorf("AddCivilDays(%q, %d) = (%q, %v), want %q", tc.date, tc.n, got, err, tc.want)
		}
	}
}

func TestValidCivilDate(t *testing.T) {
	valid := []string{"2026-03-02", "2024-02-29"}
	invalid := []string{"2026-3-2", "2026-02-30", "02/03/2026", "2026-13-01", ""}
	for _, s := range valid {
		if !ValidCivilDate(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidCivilDate(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestCivilInstant(t *testing.T) {
	at, err := CivilInstant("2026-03-02", 540)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 3, 2, 9, 0, 0, 0, CivilZone)
	if !at.Equal(want) {
		t.Errorf("CivilInstant = %s, want %s", at, want)
	}
}

func TestFormatCivilDateBR(t *testing.T) {
	if got := FormatCivilDateBR("2026-03-02"); got != "02/03/2026" {
		t.Errorf("FormatCivilDateBR = %q, want 02/03/2026", got)
	}
	// Malformed input falls back to the raw string.
	if got := FormatCivilDateBR("garbage"); got != "garbage" {
		t.Errorf("fallback = %q", got)
	}
}
