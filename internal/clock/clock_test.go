package clock

import (
	"testing"
	"time"
)

func TestGameDate(t *testing.T) {
	tests := []struct {
		name string
		utc  time.Time
		want string
	}{
		{
			name: "midday UTC is same date",
			utc:  time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
			want: "2024-01-05",
		},
		{
			name: "just before UTC+2 midnight",
			utc:  time.Date(2024, 1, 5, 21, 59, 59, 0, time.UTC),
			want: "2024-01-05",
		},
		{
			name: "just after UTC+2 midnight rolls the date",
			utc:  time.Date(2024, 1, 5, 22, 0, 0, 0, time.UTC),
			want: "2024-01-06",
		},
		{
			name: "year boundary",
			utc:  time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC),
			want: "2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GameDate(tt.utc); got != tt.want {
				t.Errorf("GameDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreviousGameDate(t *testing.T) {
	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := PreviousGameDate(utc); got != "2024-02-29" {
		t.Errorf("PreviousGameDate() = %v, want 2024-02-29", got)
	}
}

func TestSecondsToNextReset(t *testing.T) {
	tests := []struct {
		name string
		utc  time.Time
		want int64
	}{
		{
			name: "one hour before reset",
			utc:  time.Date(2024, 1, 5, 21, 0, 0, 0, time.UTC),
			want: 3600,
		},
		{
			name: "one second before reset",
			utc:  time.Date(2024, 1, 5, 21, 59, 59, 0, time.UTC),
			want: 1,
		},
		{
			name: "exactly at reset counts a full day",
			utc:  time.Date(2024, 1, 5, 22, 0, 0, 0, time.UTC),
			want: 86400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecondsToNextReset(tt.utc); got != tt.want {
				t.Errorf("SecondsToNextReset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsYesterday(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		reference string
		want      bool
	}{
		{"consecutive days", "2024-01-04", "2024-01-05", true},
		{"same day", "2024-01-05", "2024-01-05", false},
		{"two days apart", "2024-01-03", "2024-01-05", false},
		{"date after reference", "2024-01-06", "2024-01-05", false},
		{"month boundary", "2024-01-31", "2024-02-01", true},
		{"leap day", "2024-02-29", "2024-03-01", true},
		{"empty date", "", "2024-01-05", false},
		{"malformed reference", "2024-01-04", "not-a-date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsYesterday(tt.date, tt.reference); got != tt.want {
				t.Errorf("IsYesterday(%q, %q) = %v, want %v", tt.date, tt.reference, got, tt.want)
			}
		})
	}
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	clk := Fixed{Time: instant}
	if !clk.Now().Equal(instant) {
		t.Errorf("Fixed.Now() = %v, want %v", clk.Now(), instant)
	}
}
