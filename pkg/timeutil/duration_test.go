package timeutil

import (
	"testing"
	"time"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input     string
		want      time.Duration
		canonical string
	}{
		{"15", 15 * time.Second, "15s"},
		{"15s", 15 * time.Second, "15s"},
		{"2m", 2 * time.Minute, "2m"},
		{"90s", 90 * time.Second, "1m30s"},
		{"1h30m", 90 * time.Minute, "1h30m"},
		{"1h 30m", 90 * time.Minute, "1h30m"},
		{"2 minutes", 2 * time.Minute, "2m"},
		{"1hr", time.Hour, "1h"},
		{" 45 secs ", 45 * time.Second, "45s"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, canonical, err := ParseInterval(tc.input)
			if err != nil {
				t.Fatalf("ParseInterval(%q): %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseInterval(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if canonical != tc.canonical {
				t.Errorf("canonical form = %q, want %q", canonical, tc.canonical)
			}
		})
	}
}

func TestParseIntervalRejects(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"0",
		"-5",
		"0s",
		"abc",
		"15x",
		"s15",
	}

	for _, input := range tests {
		if _, _, err := ParseInterval(input); err == nil {
			t.Errorf("ParseInterval(%q) should fail", input)
		}
	}
}

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{15 * time.Second, "15s"},
		{time.Minute, "1m"},
		{61 * time.Second, "1m1s"},
		{90 * time.Minute, "1h30m"},
		{3661 * time.Second, "1h1m1s"},
	}

	for _, tc := range tests {
		if got := FormatInterval(tc.d); got != tc.want {
			t.Errorf("FormatInterval(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{-time.Second, 0},
		{500 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{15 * time.Second, 15},
	}

	for _, tc := range tests {
		if got := Seconds(tc.d); got != tc.want {
			t.Errorf("Seconds(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}
