package utils

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "zero padded month and day",
			in:   time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC),
			want: "2024-03-05",
		},
		{
			name: "last minute of the year",
			in:   time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC),
			want: "2023-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.in); got != tt.want {
				t.Errorf("DayKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayKeyUsesWallClockOfLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	// Same wall-clock date in two zones gives the same key
	a := time.Date(2024, time.July, 1, 0, 30, 0, 0, tokyo)
	b := time.Date(2024, time.July, 1, 23, 30, 0, 0, newYork)
	if DayKey(a) != DayKey(b) {
		t.Errorf("expected equal keys, got %q and %q", DayKey(a), DayKey(b))
	}

	// The same instant seen from two zones can fall on different dates
	instant := time.Date(2024, time.July, 1, 2, 0, 0, 0, time.UTC)
	if DayKey(instant.In(tokyo)) == DayKey(instant.In(newYork)) {
		t.Errorf("expected different keys for %v in JST and EST", instant)
	}
}

func TestParseDayKey(t *testing.T) {
	loc := time.FixedZone("TEST", 3600)
	got, err := ParseDayKey("2024-02-29", loc)
	if err != nil {
		t.Fatalf("ParseDayKey() error = %v", err)
	}
	if got.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, got.Location())
	}
	if DayKey(got) != "2024-02-29" {
		t.Errorf("expected round trip to 2024-02-29, got %s", DayKey(got))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("expected midnight, got %s", got.Format(time.Kitchen))
	}

	if _, err := ParseDayKey("29/02/2024", loc); err == nil {
		t.Error("expected error for malformed key, got nil")
	}
}

func TestBuildMonthDayMatrix(t *testing.T) {
	matrix := BuildMonthDayMatrix(2024, time.UTC)

	// February 2024 has 29 days
	if matrix[28][1] == nil {
		t.Fatal("expected 2024-02-29 to exist")
	}
	if DayKey(*matrix[28][1]) != "2024-02-29" {
		t.Errorf("expected 2024-02-29, got %s", DayKey(*matrix[28][1]))
	}
	if matrix[29][1] != nil {
		t.Errorf("expected February 30 to be empty, got %v", matrix[29][1])
	}

	// April has 30 days
	if matrix[30][3] != nil {
		t.Errorf("expected April 31 to be empty")
	}

	filled := 0
	for d := 0; d < MatrixRows; d++ {
		for m := 0; m < MatrixColumns; m++ {
			cell := matrix[d][m]
			if cell == nil {
				continue
			}
			filled++
			if cell.Day() != d+1 || int(cell.Month()) != m+1 {
				t.Errorf("cell [%d][%d] holds %s", d, m, DayKey(*cell))
			}
		}
	}
	if filled != 366 {
		t.Errorf("expected 366 filled cells, got %d", filled)
	}

	nonLeap := BuildMonthDayMatrix(2023, time.UTC)
	if nonLeap[28][1] != nil {
		t.Error("expected 2023-02-29 to be empty")
	}
}

func TestDaysOfYear(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2023, 365},
		{2024, 366},
		{1900, 365},
		{2000, 366},
	}

	for _, tt := range tests {
		days := DaysOfYear(tt.year, time.UTC)
		if len(days) != tt.want {
			t.Errorf("DaysOfYear(%d) returned %d days, want %d", tt.year, len(days), tt.want)
			continue
		}
		if DayKey(days[0]) != time.Date(tt.year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02") {
			t.Errorf("DaysOfYear(%d) starts at %s", tt.year, DayKey(days[0]))
		}
		for i := 1; i < len(days); i++ {
			if !days[i].After(days[i-1]) {
				t.Fatalf("DaysOfYear(%d) not chronological at %d", tt.year, i)
			}
		}
	}
}

func TestDaysOfYearAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	days := DaysOfYear(2024, loc)
	if len(days) != 366 {
		t.Fatalf("expected 366 days, got %d", len(days))
	}
	seen := make(map[string]bool)
	for _, d := range days {
		key := DayKey(d)
		if seen[key] {
			t.Fatalf("duplicate day %s", key)
		}
		seen[key] = true
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.January, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.January, 6, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 5 {
		t.Errorf("DaysBetween() = %d, want 5", got)
	}
	if got := DaysBetween(b, a); got != -5 {
		t.Errorf("DaysBetween() reversed = %d, want -5", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("DaysBetween() same day = %d, want 0", got)
	}
}

func TestIsLeapYear(t *testing.T) {
	if !IsLeapYear(2024) || IsLeapYear(2023) || IsLeapYear(2100) || !IsLeapYear(2000) {
		t.Error("IsLeapYear returned an unexpected result")
	}
}
